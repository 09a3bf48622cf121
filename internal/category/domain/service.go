package domain

import (
	"context"
	"errors"
)

var (
	ErrNotFound    = errors.New("category_not_found")
	ErrInvalidPath = errors.New("invalid_category_path")
)

// EnsureResult tallies one EnsureTree pass.
type EnsureResult struct {
	Created int
	Existed int
}

type Service interface {
	// EnsureTree makes every node on every given breadcrumb path exist,
	// parents before children. Paths already persisted are left untouched,
	// so repeated ingestion runs are idempotent.
	EnsureTree(ctx context.Context, paths []string) (EnsureResult, error)

	// ResolveLeaf returns the ID of the deepest node of the path, or
	// ErrNotFound when the path was never ensured.
	ResolveLeaf(ctx context.Context, path string) (int64, error)

	List(ctx context.Context) ([]Category, error)
}
