package db

import (
	"context" // Request context
	"strconv" // Query param parsing

	"golang.org/x/sync/errgroup" // Concurrent count and page queries
	"gorm.io/gorm"               // GORM ORM library
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// PageRequest is a normalized page/limit pair
type PageRequest struct {
	Page  int
	Limit int
}

// NewPageRequest parses raw query values, falling back to page 1 and limit 10
func NewPageRequest(page, limit string) PageRequest {
	req := PageRequest{Page: defaultPage, Limit: defaultLimit}
	if v, err := strconv.Atoi(page); err == nil && v > 0 {
		req.Page = v // Set page if valid
	}
	if v, err := strconv.Atoi(limit); err == nil && v > 0 {
		req.Limit = min(v, maxLimit) // Clamp limit
	}
	return req
}

// Offset of the first row of the page
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is one page of a listing
type Page[T any] struct {
	Items       []T   `json:"items"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
	TotalCount  int64 `json:"totalCount"`
}

// Paginate counts the rows matched by base and loads the requested page, newest first.
// Preloads only apply to the page query.
func Paginate[T any](ctx context.Context, base *gorm.DB, req PageRequest, preloads ...string) (*Page[T], error) {
	var (
		total int64
		items = make([]T, 0, req.Limit)
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return base.WithContext(gctx).Model(new(T)).Count(&total).Error
	})
	g.Go(func() error {
		q := base.WithContext(gctx)
		for _, p := range preloads {
			q = q.Preload(p)
		}
		return q.Order("id DESC").Offset(req.Offset()).Limit(req.Limit).Find(&items).Error
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Page[T]{
		Items:       items,
		TotalPages:  int((total + int64(req.Limit) - 1) / int64(req.Limit)),
		CurrentPage: req.Page,
		TotalCount:  total,
	}, nil
}
