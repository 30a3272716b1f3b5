// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"folio/internal/events"
	"folio/internal/hierarchy"
	"folio/internal/models"
	"folio/internal/store"
)

// MoveCategory gives a category a new parent; an empty parentID moves it
// to the root level. The move is checked against the rows read inside the
// store's locked move transaction, never against a cached tree. Moving a
// category under itself or a descendant returns a *hierarchy.CycleError.
func (s *Service) MoveCategory(ctx context.Context, id, parentID string) error {
	var oldParent string
	move, err := s.categories.Move(ctx, func(rows []models.Category) (*store.CategoryMove, error) {
		forest, err := hierarchy.Build(rows)
		if err != nil {
			return nil, fmt.Errorf("build category tree: %w", err)
		}
		return planMove(forest, id, parentID, &oldParent)
	})
	if err != nil {
		return err
	}
	if move == nil {
		return nil
	}
	s.cache.InvalidateTree(ctx)

	newParent := ""
	if move.ParentID != nil {
		newParent = *move.ParentID
	}
	slog.Info("category moved", "category_id", move.ID, "old_parent", oldParent, "new_parent", newParent)

	ev := events.New(events.TypeCategoryMoved, events.CategoryMoved{
		CategoryID:  move.ID,
		OldParentID: oldParent,
		NewParentID: newParent,
	})
	if err := s.events.Publish(ctx, move.ID, ev); err != nil {
		slog.Warn("publish category moved event failed", "category_id", move.ID, "error", err)
	}
	return nil
}

// planMove reparents id inside forest and returns the resulting row
// change, or nil when the parent stays the same. oldParent receives the
// parent before the move.
func planMove(forest *hierarchy.Forest, id, parentID string, oldParent *string) (*store.CategoryMove, error) {
	old, ok := forest.Parent(id)
	if !ok {
		return nil, &hierarchy.NotFoundError{ID: id}
	}
	*oldParent = old
	if err := forest.Reparent(id, parentID); err != nil {
		return nil, err
	}

	node, err := forest.FindNode(id)
	if err != nil {
		return nil, err
	}
	newParent, _ := forest.Parent(node.ID)
	if newParent == old {
		return nil, nil
	}

	move := &store.CategoryMove{ID: node.ID}
	if newParent != "" {
		move.ParentID = &newParent
	}
	return move, nil
}
