// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package hierarchy resolves the catalog category forest: lookups,
// root-to-node paths, depth-annotated flattening for dropdowns and the
// anti-cycle guard used when a category changes parent.
//
// A Forest is a plain value owned by one editing session. It is not safe
// for concurrent mutation.
package hierarchy

import (
	"fmt"
	"strings"

	"folio/internal/models"
)

// Forest is a rooted forest of categories. Each node owns its children and
// the id→parent index is maintained alongside so that parent lookups never
// need back-references.
type Forest struct {
	roots  []models.Category
	parent map[string]string // normalized id -> normalized parent id, "" for roots
}

// normalize canonicalizes an identifier for comparison.
func normalize(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// New builds a Forest from already nested nodes. The input is copied; the
// nesting is authoritative and ParentID fields are rewritten to match it.
func New(roots []models.Category) (*Forest, error) {
	f := &Forest{
		roots:  cloneNodes(roots),
		parent: make(map[string]string),
	}
	if err := f.index(f.roots, nil, 0); err != nil {
		return nil, err
	}
	return f, nil
}

// index walks nodes, fixing ParentID and Depth and recording parents.
func (f *Forest) index(nodes []models.Category, parentID *string, depth int) error {
	for i := range nodes {
		n := &nodes[i]
		key := normalize(n.ID)
		if _, seen := f.parent[key]; seen {
			return fmt.Errorf("%w: %q", ErrDuplicateID, n.ID)
		}
		if parentID == nil {
			n.ParentID = nil
			f.parent[key] = ""
		} else {
			pid := *parentID
			n.ParentID = &pid
			f.parent[key] = normalize(pid)
		}
		n.Depth = depth
		if err := f.index(n.Children, &n.ID, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// Build nests a flat list of categories as loaded from storage. Rows whose
// parent is absent from the list become roots. Rows that cannot be reached
// from any root sit on a parent cycle and are rejected with a CycleError.
func Build(flat []models.Category) (*Forest, error) {
	ids := make(map[string]bool, len(flat))
	for _, c := range flat {
		key := normalize(c.ID)
		if ids[key] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, c.ID)
		}
		ids[key] = true
	}

	byParent := make(map[string][]models.Category)
	var roots []models.Category
	for _, c := range flat {
		c.Children = nil
		if c.ParentID == nil || !ids[normalize(*c.ParentID)] {
			roots = append(roots, c)
			continue
		}
		p := normalize(*c.ParentID)
		byParent[p] = append(byParent[p], c)
	}

	visited := make(map[string]bool, len(flat))
	var attach func(nodes []models.Category) []models.Category
	attach = func(nodes []models.Category) []models.Category {
		for i := range nodes {
			key := normalize(nodes[i].ID)
			visited[key] = true
			nodes[i].Children = attach(byParent[key])
		}
		return nodes
	}
	roots = attach(roots)

	for _, c := range flat {
		if !visited[normalize(c.ID)] {
			return nil, &CycleError{NodeID: c.ID}
		}
	}
	return New(roots)
}

// Roots returns a copy of the nested forest.
func (f *Forest) Roots() []models.Category {
	return cloneNodes(f.roots)
}

// Len returns the number of categories in the forest.
func (f *Forest) Len() int {
	return len(f.parent)
}

// Parent returns the parent id of a node and whether the node exists.
// Roots report an empty parent id.
func (f *Forest) Parent(id string) (string, bool) {
	p, ok := f.parent[normalize(id)]
	if !ok {
		return "", false
	}
	if p == "" {
		return "", true
	}
	n := find(f.roots, p)
	return n.ID, true
}

// FindNode returns a copy of the first node, in pre-order, whose id matches.
func (f *Forest) FindNode(id string) (*models.Category, error) {
	n := find(f.roots, normalize(id))
	if n == nil {
		return nil, &NotFoundError{ID: id}
	}
	c := cloneNode(*n)
	return &c, nil
}

// find performs a pre-order depth-first search for a normalized id and
// returns a pointer into the forest.
func find(nodes []models.Category, id string) *models.Category {
	for i := range nodes {
		if normalize(nodes[i].ID) == id {
			return &nodes[i]
		}
		if n := find(nodes[i].Children, id); n != nil {
			return n
		}
	}
	return nil
}

// PathTo returns the chain of ids from a root down to the target, inclusive.
func (f *Forest) PathTo(id string) ([]string, error) {
	path := pathTo(f.roots, normalize(id), nil)
	if path == nil {
		return nil, &NotFoundError{ID: id}
	}
	return path, nil
}

func pathTo(nodes []models.Category, target string, chain []string) []string {
	for i := range nodes {
		next := append(chain[:len(chain):len(chain)], nodes[i].ID)
		if normalize(nodes[i].ID) == target {
			return next
		}
		if p := pathTo(nodes[i].Children, target, next); p != nil {
			return p
		}
	}
	return nil
}

// Breadcrumb returns the titles along the path to id joined by " > ".
func (f *Forest) Breadcrumb(id string) (string, error) {
	path, err := f.PathTo(id)
	if err != nil {
		return "", err
	}
	titles := make([]string, 0, len(path))
	for _, pid := range path {
		titles = append(titles, find(f.roots, normalize(pid)).Title)
	}
	return strings.Join(titles, " > "), nil
}

// Flatten returns every node in pre-order with Depth set for indentation.
// Children are omitted from the returned copies.
func (f *Forest) Flatten() []models.Category {
	result := make([]models.Category, 0, len(f.parent))
	flattenTree(f.roots, 0, &result)
	return result
}

// flattenTree walks a category tree depth-first, appending to result.
func flattenTree(nodes []models.Category, depth int, result *[]models.Category) {
	for _, n := range nodes {
		children := n.Children
		n.Children = nil
		n.Depth = depth
		*result = append(*result, n)
		if len(children) > 0 {
			flattenTree(children, depth+1, result)
		}
	}
}

// Descendants returns the normalized ids of every node below id, plus id
// itself.
func (f *Forest) Descendants(id string) (map[string]bool, error) {
	n := find(f.roots, normalize(id))
	if n == nil {
		return nil, &NotFoundError{ID: id}
	}
	set := map[string]bool{normalize(n.ID): true}
	collect(n.Children, set)
	return set, nil
}

func collect(nodes []models.Category, set map[string]bool) {
	for i := range nodes {
		set[normalize(nodes[i].ID)] = true
		collect(nodes[i].Children, set)
	}
}

// LegalParents returns every node that excludedID may be moved under: the
// whole forest minus excludedID and its descendants, in flatten order. An
// empty or unknown id excludes nothing, which is what a new category needs.
func (f *Forest) LegalParents(excludedID string) []models.Category {
	excluded, err := f.Descendants(excludedID)
	if err != nil {
		excluded = nil
	}
	all := f.Flatten()
	result := make([]models.Category, 0, len(all))
	for _, c := range all {
		if excluded[normalize(c.ID)] {
			continue
		}
		result = append(result, c)
	}
	return result
}

// Reparent moves nodeID, with its subtree, under newParentID. An empty
// newParentID promotes the node to a root. It is the only operation that
// changes a ParentID; on error the forest is unchanged.
func (f *Forest) Reparent(nodeID, newParentID string) error {
	key := normalize(nodeID)
	subtree, err := f.Descendants(nodeID)
	if err != nil {
		return err
	}

	parentKey := normalize(newParentID)
	var parentID *string
	if parentKey != "" {
		p := find(f.roots, parentKey)
		if p == nil {
			return &NotFoundError{ID: newParentID}
		}
		if subtree[parentKey] {
			return &CycleError{NodeID: nodeID, ParentID: newParentID}
		}
		pid := p.ID
		parentID = &pid
	}

	if f.parent[key] == parentKey {
		return nil
	}

	node, _ := detach(&f.roots, key)
	node.ParentID = parentID
	if parentID == nil {
		setDepth(&node, 0)
		f.roots = append(f.roots, node)
	} else {
		p := find(f.roots, parentKey)
		setDepth(&node, p.Depth+1)
		p.Children = append(p.Children, node)
	}
	f.parent[key] = parentKey
	return nil
}

// detach removes the node with the normalized id from the tree rooted in
// nodes and returns it.
func detach(nodes *[]models.Category, id string) (models.Category, bool) {
	for i := range *nodes {
		if normalize((*nodes)[i].ID) == id {
			n := (*nodes)[i]
			*nodes = append((*nodes)[:i:i], (*nodes)[i+1:]...)
			return n, true
		}
		if n, ok := detach(&(*nodes)[i].Children, id); ok {
			return n, true
		}
	}
	return models.Category{}, false
}

func setDepth(n *models.Category, depth int) {
	n.Depth = depth
	for i := range n.Children {
		setDepth(&n.Children[i], depth+1)
	}
}

func cloneNodes(nodes []models.Category) []models.Category {
	if nodes == nil {
		return nil
	}
	out := make([]models.Category, len(nodes))
	for i, n := range nodes {
		out[i] = cloneNode(n)
	}
	return out
}

func cloneNode(n models.Category) models.Category {
	if n.ParentID != nil {
		pid := *n.ParentID
		n.ParentID = &pid
	}
	n.Children = cloneNodes(n.Children)
	return n
}
