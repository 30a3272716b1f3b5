// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package hierarchy

import (
	"errors"
	"reflect"
	"testing"

	"folio/internal/models"
)

func strPtr(s string) *string { return &s }

// sampleForest returns:
//
//	fiction
//	  fantasy
//	    epic
//	  crime
//	non-fiction
//	  history
func sampleForest(t *testing.T) *Forest {
	t.Helper()
	f, err := New([]models.Category{
		{ID: "fiction", Title: "Fiction", Children: []models.Category{
			{ID: "fantasy", Title: "Fantasy", Children: []models.Category{
				{ID: "epic", Title: "Epic"},
			}},
			{ID: "crime", Title: "Crime"},
		}},
		{ID: "non-fiction", Title: "Non-fiction", Children: []models.Category{
			{ID: "history", Title: "History"},
		}},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return f
}

func ids(cats []models.Category) []string {
	out := make([]string, 0, len(cats))
	for _, c := range cats {
		out = append(out, c.ID)
	}
	return out
}

func TestNewRewritesParentIDs(t *testing.T) {
	f := sampleForest(t)

	epic, err := f.FindNode("epic")
	if err != nil {
		t.Fatalf("FindNode: %v", err)
	}
	if epic.ParentID == nil || *epic.ParentID != "fantasy" {
		t.Errorf("epic parent: got %v, want fantasy", epic.ParentID)
	}
	if epic.Depth != 2 {
		t.Errorf("epic depth: got %d, want 2", epic.Depth)
	}
	if f.Len() != 6 {
		t.Errorf("Len() = %d, want 6", f.Len())
	}
}

func TestNewRejectsDuplicateIDs(t *testing.T) {
	_, err := New([]models.Category{
		{ID: "a", Children: []models.Category{{ID: "b"}}},
		{ID: "c", Children: []models.Category{{ID: " B "}}},
	})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("New() error = %v, want ErrDuplicateID", err)
	}
}

func TestFindNode(t *testing.T) {
	f := sampleForest(t)

	tests := []struct {
		name    string
		id      string
		want    string
		wantErr bool
	}{
		{name: "root", id: "fiction", want: "Fiction"},
		{name: "leaf", id: "epic", want: "Epic"},
		{name: "second root subtree", id: "history", want: "History"},
		{name: "case-insensitive and trimmed", id: "  FANTASY ", want: "Fantasy"},
		{name: "missing", id: "poetry", wantErr: true},
		{name: "empty", id: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.FindNode(tt.id)
			if tt.wantErr {
				var nf *NotFoundError
				if !errors.As(err, &nf) {
					t.Fatalf("FindNode(%q) error = %v, want NotFoundError", tt.id, err)
				}
				if !errors.Is(err, ErrNotFound) {
					t.Errorf("errors.Is(err, ErrNotFound) = false")
				}
				return
			}
			if err != nil {
				t.Fatalf("FindNode(%q): %v", tt.id, err)
			}
			if got.Title != tt.want {
				t.Errorf("FindNode(%q).Title = %q, want %q", tt.id, got.Title, tt.want)
			}
		})
	}
}

func TestFindNodeReturnsCopy(t *testing.T) {
	f := sampleForest(t)

	n, _ := f.FindNode("fiction")
	n.Title = "changed"
	n.Children = nil

	again, _ := f.FindNode("fiction")
	if again.Title != "Fiction" || len(again.Children) != 2 {
		t.Errorf("forest was mutated through FindNode result: %+v", again)
	}
}

func TestPathTo(t *testing.T) {
	f := sampleForest(t)

	tests := []struct {
		id   string
		want []string
	}{
		{id: "fiction", want: []string{"fiction"}},
		{id: "epic", want: []string{"fiction", "fantasy", "epic"}},
		{id: "crime", want: []string{"fiction", "crime"}},
		{id: "history", want: []string{"non-fiction", "history"}},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, err := f.PathTo(tt.id)
			if err != nil {
				t.Fatalf("PathTo(%q): %v", tt.id, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PathTo(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}

	if _, err := f.PathTo("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("PathTo(missing) error = %v, want ErrNotFound", err)
	}
}

func TestBreadcrumb(t *testing.T) {
	f := sampleForest(t)

	got, err := f.Breadcrumb("epic")
	if err != nil {
		t.Fatalf("Breadcrumb: %v", err)
	}
	if want := "Fiction > Fantasy > Epic"; got != want {
		t.Errorf("Breadcrumb(epic) = %q, want %q", got, want)
	}
}

func TestFlatten(t *testing.T) {
	f := sampleForest(t)

	flat := f.Flatten()
	wantIDs := []string{"fiction", "fantasy", "epic", "crime", "non-fiction", "history"}
	wantDepths := []int{0, 1, 2, 1, 0, 1}

	if !reflect.DeepEqual(ids(flat), wantIDs) {
		t.Fatalf("Flatten ids = %v, want %v", ids(flat), wantIDs)
	}
	for i, c := range flat {
		if c.Depth != wantDepths[i] {
			t.Errorf("%s depth: got %d, want %d", c.ID, c.Depth, wantDepths[i])
		}
		if c.Children != nil {
			t.Errorf("%s: flattened node still carries children", c.ID)
		}
	}
}

func TestLegalParents(t *testing.T) {
	f := sampleForest(t)

	tests := []struct {
		name     string
		excluded string
		want     []string
	}{
		{name: "root excludes whole subtree", excluded: "fiction", want: []string{"non-fiction", "history"}},
		{name: "inner node", excluded: "fantasy", want: []string{"fiction", "crime", "non-fiction", "history"}},
		{name: "leaf excludes only itself", excluded: "epic", want: []string{"fiction", "fantasy", "crime", "non-fiction", "history"}},
		{name: "unknown excludes nothing", excluded: "new", want: []string{"fiction", "fantasy", "epic", "crime", "non-fiction", "history"}},
		{name: "empty excludes nothing", excluded: "", want: []string{"fiction", "fantasy", "epic", "crime", "non-fiction", "history"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(f.LegalParents(tt.excluded))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("LegalParents(%q) = %v, want %v", tt.excluded, got, tt.want)
			}
		})
	}
}

// TestLegalParentsNeverOffersSelfOrDescendant checks every node of the
// sample forest against its own descendant set.
func TestLegalParentsNeverOffersSelfOrDescendant(t *testing.T) {
	f := sampleForest(t)

	for _, n := range f.Flatten() {
		desc, err := f.Descendants(n.ID)
		if err != nil {
			t.Fatalf("Descendants(%q): %v", n.ID, err)
		}
		for _, p := range f.LegalParents(n.ID) {
			if desc[normalize(p.ID)] {
				t.Errorf("LegalParents(%q) offers %q", n.ID, p.ID)
			}
		}
	}
}

func TestReparentRejectsCycles(t *testing.T) {
	tests := []struct {
		name   string
		node   string
		parent string
	}{
		{name: "self", node: "fantasy", parent: "fantasy"},
		{name: "direct child", node: "fiction", parent: "fantasy"},
		{name: "grandchild", node: "fiction", parent: "epic"},
		{name: "case-insensitive descendant", node: "fiction", parent: "EPIC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := sampleForest(t)
			before := f.Roots()

			err := f.Reparent(tt.node, tt.parent)
			var ce *CycleError
			if !errors.As(err, &ce) {
				t.Fatalf("Reparent(%q, %q) error = %v, want CycleError", tt.node, tt.parent, err)
			}
			if !reflect.DeepEqual(f.Roots(), before) {
				t.Error("forest changed after a rejected reparent")
			}
		})
	}
}

func TestReparentUnknownIDs(t *testing.T) {
	f := sampleForest(t)

	if err := f.Reparent("missing", "fiction"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown node: error = %v, want ErrNotFound", err)
	}
	if err := f.Reparent("crime", "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown parent: error = %v, want ErrNotFound", err)
	}
}

func TestReparentMovesSubtree(t *testing.T) {
	f := sampleForest(t)

	if err := f.Reparent("fantasy", "history"); err != nil {
		t.Fatalf("Reparent: %v", err)
	}

	path, err := f.PathTo("epic")
	if err != nil {
		t.Fatalf("PathTo: %v", err)
	}
	want := []string{"non-fiction", "history", "fantasy", "epic"}
	if !reflect.DeepEqual(path, want) {
		t.Errorf("PathTo(epic) = %v, want %v", path, want)
	}

	parent, ok := f.Parent("fantasy")
	if !ok || parent != "history" {
		t.Errorf("Parent(fantasy) = %q, %v; want history, true", parent, ok)
	}

	epic, _ := f.FindNode("epic")
	if epic.Depth != 3 {
		t.Errorf("epic depth after move: got %d, want 3", epic.Depth)
	}
	fantasy, _ := f.FindNode("fantasy")
	if fantasy.ParentID == nil || *fantasy.ParentID != "history" {
		t.Errorf("fantasy ParentID = %v, want history", fantasy.ParentID)
	}
}

func TestReparentToRoot(t *testing.T) {
	f := sampleForest(t)

	if err := f.Reparent("crime", ""); err != nil {
		t.Fatalf("Reparent: %v", err)
	}
	path, _ := f.PathTo("crime")
	if !reflect.DeepEqual(path, []string{"crime"}) {
		t.Errorf("PathTo(crime) = %v, want [crime]", path)
	}
	crime, _ := f.FindNode("crime")
	if !crime.IsRoot() || crime.Depth != 0 {
		t.Errorf("crime should be a depth-0 root, got %+v", crime)
	}
}

func TestReparentSameParentIsNoop(t *testing.T) {
	f := sampleForest(t)
	before := f.Roots()

	if err := f.Reparent("crime", "Fiction"); err != nil {
		t.Fatalf("Reparent: %v", err)
	}
	if !reflect.DeepEqual(f.Roots(), before) {
		t.Error("reparenting under the current parent reordered the tree")
	}
}

// TestReparentScenario is the Root(A) -> Child(B) -> Grandchild(C) walk-through.
func TestReparentScenario(t *testing.T) {
	f, err := New([]models.Category{
		{ID: "A", Children: []models.Category{
			{ID: "B", Children: []models.Category{{ID: "C"}}},
		}},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := f.Reparent("A", "C"); !errors.Is(err, ErrCycle) {
		t.Fatalf("Reparent(A, C) error = %v, want cycle", err)
	}
	if err := f.Reparent("C", "A"); err != nil {
		t.Fatalf("Reparent(C, A): %v", err)
	}
	path, err := f.PathTo("C")
	if err != nil {
		t.Fatalf("PathTo(C): %v", err)
	}
	if !reflect.DeepEqual(path, []string{"A", "C"}) {
		t.Errorf("PathTo(C) = %v, want [A C]", path)
	}
}

// TestReparentKeepsPathsAcyclic performs every legal move on a fresh forest
// and checks that no path afterwards repeats an id.
func TestReparentKeepsPathsAcyclic(t *testing.T) {
	nodes := ids(sampleForest(t).Flatten())

	for _, a := range nodes {
		for _, b := range nodes {
			f := sampleForest(t)
			if err := f.Reparent(a, b); err != nil {
				if !errors.Is(err, ErrCycle) {
					t.Fatalf("Reparent(%q, %q): unexpected error %v", a, b, err)
				}
				continue
			}
			for _, n := range nodes {
				path, err := f.PathTo(n)
				if err != nil {
					t.Fatalf("after Reparent(%q, %q): PathTo(%q): %v", a, b, n, err)
				}
				seen := map[string]bool{}
				for _, id := range path {
					if seen[id] {
						t.Fatalf("after Reparent(%q, %q): PathTo(%q) = %v repeats %q", a, b, n, path, id)
					}
					seen[id] = true
				}
			}
			if got := len(f.Flatten()); got != len(nodes) {
				t.Fatalf("after Reparent(%q, %q): %d nodes, want %d", a, b, got, len(nodes))
			}
		}
	}
}

func TestBuild(t *testing.T) {
	flat := []models.Category{
		{ID: "fiction", Title: "Fiction"},
		{ID: "fantasy", Title: "Fantasy", ParentID: strPtr("fiction")},
		{ID: "epic", Title: "Epic", ParentID: strPtr("fantasy")},
		{ID: "orphan", Title: "Orphan", ParentID: strPtr("deleted")},
		{ID: "crime", Title: "Crime", ParentID: strPtr("fiction")},
	}

	f, err := Build(flat)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	got := ids(f.Flatten())
	want := []string{"fiction", "fantasy", "epic", "crime", "orphan"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Flatten after Build = %v, want %v", got, want)
	}

	orphan, _ := f.FindNode("orphan")
	if !orphan.IsRoot() {
		t.Errorf("orphan with a missing parent should become a root")
	}
}

func TestBuildDetectsStoredCycle(t *testing.T) {
	flat := []models.Category{
		{ID: "root"},
		{ID: "x", ParentID: strPtr("y")},
		{ID: "y", ParentID: strPtr("x")},
	}

	_, err := Build(flat)
	if !errors.Is(err, ErrCycle) {
		t.Fatalf("Build() error = %v, want cycle", err)
	}
}
