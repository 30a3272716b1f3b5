// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slugs for category and product titles
// and safe object-key file names for uploads.
package slug

import (
	"path"
	"strings"

	gosimple "github.com/gosimple/slug"
)

// maxFileBase bounds the slugged part of a file name.
const maxFileBase = 80

// Generate creates a URL-friendly slug from the given string.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	return gosimple.Make(s)
}

// FileName turns an uploaded file name into one that is safe as the last
// segment of an object key, keeping a lower-cased extension.
// Example: "My Cover (Final).JPG" → "my-cover-final.jpg"
func FileName(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	ext := path.Ext(name)
	base := gosimple.Make(strings.TrimSuffix(name, ext))
	if len(base) > maxFileBase {
		base = strings.TrimRight(base[:maxFileBase], "-")
	}
	if base == "" {
		base = "file"
	}
	ext = gosimple.Make(strings.TrimPrefix(ext, "."))
	if ext == "" {
		return base
	}
	return base + "." + ext
}
