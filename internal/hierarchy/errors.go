// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package hierarchy

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound matches any *NotFoundError via errors.Is.
	ErrNotFound = errors.New("hierarchy: category not found")
	// ErrCycle matches any *CycleError via errors.Is.
	ErrCycle = errors.New("hierarchy: cycle")
	// ErrDuplicateID is returned when a tree lists the same id twice.
	ErrDuplicateID = errors.New("hierarchy: duplicate category id")
)

// NotFoundError reports a category id that does not exist in the tree.
// Callers should treat it as a stale selection and reload the tree.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("hierarchy: category %q not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// CycleError reports a parent assignment that would make a node its own
// ancestor. The tree is left untouched.
type CycleError struct {
	NodeID   string
	ParentID string
}

func (e *CycleError) Error() string {
	if e.ParentID == "" {
		return fmt.Sprintf("hierarchy: category %q is part of a cycle", e.NodeID)
	}
	return fmt.Sprintf("hierarchy: moving %q under %q would create a cycle", e.NodeID, e.ParentID)
}

func (e *CycleError) Is(target error) bool {
	return target == ErrCycle
}
