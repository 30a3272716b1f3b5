// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package media reconciles the images stored for a product with the set an
// editor is working on and produces the keep/create/delete operations the
// catalog service needs to apply.
package media

import (
	"errors"
	"fmt"
	"strings"

	"folio/internal/models"
)

var (
	// ErrMissingFile is returned for a working item that matches nothing
	// stored and has no pending upload.
	ErrMissingFile = errors.New("media: new item has no file")
	// ErrAmbiguousSource is returned for an item that carries a pending
	// upload together with a stored identity (an id or a URL). Replacing a
	// stored image means removing it and adding the upload as a new item.
	ErrAmbiguousSource = errors.New("media: item has both a pending file and a stored source")
	// ErrUnknownRole is returned for a role outside cover, backCover, gallery.
	ErrUnknownRole = errors.New("media: unknown role")
)

// DuplicateRoleError reports a singleton role claimed by two active items.
type DuplicateRoleError struct {
	Role models.MediaRole
}

func (e *DuplicateRoleError) Error() string {
	return fmt.Sprintf("media: more than one image holds the %s role", e.Role)
}

// OpKind is the action the catalog service takes for one media item.
type OpKind string

const (
	OpKeep   OpKind = "keep"
	OpCreate OpKind = "create"
	OpDelete OpKind = "delete"
)

// Op is one reconciliation step. Keep carries the stored id with the
// edited role and title, Create carries the pending file, Delete carries
// only the stored id.
type Op struct {
	Kind  OpKind           `json:"kind"`
	ID    string           `json:"id,omitempty"`
	Role  models.MediaRole `json:"role,omitempty"`
	Title string           `json:"title,omitempty"`
	File  *models.FileRef  `json:"file,omitempty"`
}

// Active reports whether the op leaves an item on the product.
func (o Op) Active() bool {
	return o.Kind != OpDelete
}

type identity struct {
	title string
	url   string
}

// Reconcile diffs the stored media against the working set. Working items
// match a stored item by backend id, or, when they have no id, by exact
// title and composed URL; each stored item matches at most once. Keep and
// Create ops follow working order, Delete ops follow stored order.
func Reconcile(persisted, working []models.MediaItem) ([]Op, error) {
	byID := make(map[string][]int)
	byKey := make(map[identity][]int)
	for i := range persisted {
		p := &persisted[i]
		if p.ID != "" {
			byID[p.ID] = append(byID[p.ID], i)
		}
		k := identity{title: p.Title, url: p.URL()}
		byKey[k] = append(byKey[k], i)
	}

	matched := make([]bool, len(persisted))
	take := func(candidates []int) int {
		for _, i := range candidates {
			if !matched[i] {
				matched[i] = true
				return i
			}
		}
		return -1
	}

	ops := make([]Op, 0, len(working)+len(persisted))
	for i := range working {
		w := &working[i]
		if !w.Role.Valid() {
			return nil, fmt.Errorf("%w %q", ErrUnknownRole, w.Role)
		}
		if w.File != nil && (w.BaseURL != "" || w.ID != "") {
			return nil, fmt.Errorf("%w: %q", ErrAmbiguousSource, w.Title)
		}

		idx := -1
		switch {
		case w.ID != "":
			idx = take(byID[w.ID])
		case w.BaseURL != "":
			idx = take(byKey[identity{title: w.Title, url: w.URL()}])
		}

		if idx >= 0 {
			// Titles are fixed once stored; the op reports the stored one.
			ops = append(ops, Op{Kind: OpKeep, ID: persisted[idx].ID, Role: w.Role, Title: persisted[idx].Title})
			continue
		}
		if w.File == nil {
			return nil, fmt.Errorf("%w: %q", ErrMissingFile, w.Title)
		}
		title := strings.TrimSpace(w.Title)
		if title == "" {
			title = w.File.Name
		}
		file := *w.File
		ops = append(ops, Op{Kind: OpCreate, Role: w.Role, Title: title, File: &file})
	}

	for i := range persisted {
		if !matched[i] {
			ops = append(ops, Op{Kind: OpDelete, ID: persisted[i].ID})
		}
	}

	if err := checkSingletons(ops); err != nil {
		return nil, err
	}
	return ops, nil
}

// checkSingletons fails on the first singleton role held twice by an
// active op.
func checkSingletons(ops []Op) error {
	seen := make(map[models.MediaRole]bool)
	for _, op := range ops {
		if !op.Active() || !op.Role.Singleton() {
			continue
		}
		if seen[op.Role] {
			return &DuplicateRoleError{Role: op.Role}
		}
		seen[op.Role] = true
	}
	return nil
}

// Summary counts ops per kind.
type Summary struct {
	Keep   int `json:"keep"`
	Create int `json:"create"`
	Delete int `json:"delete"`
}

// Summarize counts the ops of each kind.
func Summarize(ops []Op) Summary {
	var s Summary
	for _, op := range ops {
		switch op.Kind {
		case OpKeep:
			s.Keep++
		case OpCreate:
			s.Create++
		case OpDelete:
			s.Delete++
		}
	}
	return s
}
