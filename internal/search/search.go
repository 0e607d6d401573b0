// Package search finds products by free text.
package search

import (
	"context"
	"strings"

	"github.com/marlanuera/CA1-Code/internal/models"
	"github.com/marlanuera/CA1-Code/internal/repo"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type Searcher interface {
	Search(ctx context.Context, q string, limit int) ([]models.Product, error)
	Index(ctx context.Context, p models.Product) error
	Remove(ctx context.Context, id uint) error
}

func sanitizeQuery(q string) string {
	return strings.TrimSpace(q)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// SQLSearcher matches product names and categories with LIKE.
type SQLSearcher struct {
	Repo *repo.GormRepo
}

func (s *SQLSearcher) Search(ctx context.Context, q string, limit int) ([]models.Product, error) {
	q = sanitizeQuery(q)
	if q == "" {
		return []models.Product{}, nil
	}
	return s.Repo.SearchProducts(ctx, q, clampLimit(limit))
}

// Index is a no-op: the table is the index.
func (s *SQLSearcher) Index(context.Context, models.Product) error { return nil }

func (s *SQLSearcher) Remove(context.Context, uint) error { return nil }
