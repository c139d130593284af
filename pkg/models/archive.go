package models

import (
	"path/filepath"

	"github.com/uptrace/bun"
)

type Archive struct {
	bun.BaseModel `bun:"table:archives,alias:a"`

	ID   int    `bun:",pk,nullzero" json:"id"`
	Name string `bun:"arch_name" json:"name"`
	Home string `bun:"arch_home" json:"home"`
	Size int64  `bun:"arch_size" json:"size"`
	// Digest is the uppercase hex MD5 of the archive's first mebibyte. The
	// column keeps its historical name.
	Digest string `bun:"arch_uuid" json:"digest"`
	Done   bool   `bun:"arch_done" json:"done"`
}

// Path returns where the archive lives on disk.
func (a *Archive) Path() string {
	return filepath.Join(a.Home, a.Name)
}
