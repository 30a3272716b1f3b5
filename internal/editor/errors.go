// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"errors"
	"fmt"

	"folio/internal/hierarchy"
	"folio/internal/media"
	"folio/internal/variant"
)

// ErrProductNotFound is returned by Open when the catalog has no such product.
var ErrProductNotFound = errors.New("editor: product not found")

// FieldError is the single piece of feedback a failed submit produces. Err
// keeps the underlying core error, if any, reachable through errors.As.
type FieldError struct {
	Field  string
	Reason string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Describe maps any error produced by the catalog core to the field and
// reason shown to the editor. Unknown errors map to an empty field.
func Describe(err error) (field, reason string) {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Field, fe.Reason
	}
	var ve *variant.ValidationError
	if errors.As(err, &ve) {
		return ve.Field, ve.Reason
	}
	var dup *media.DuplicateRoleError
	if errors.As(err, &dup) {
		return "media", fmt.Sprintf("only one image can be the %s", dup.Role)
	}
	var nf *hierarchy.NotFoundError
	if errors.As(err, &nf) {
		return "categoryId", "the selected category no longer exists, reload the category list"
	}
	var ce *hierarchy.CycleError
	if errors.As(err, &ce) {
		return "parentId", "a category cannot be moved under itself or one of its subcategories"
	}
	return "", err.Error()
}
