package database

import (
	"gorm.io/gorm"

	"github.com/kbukum/resultkit/errors"
	"github.com/kbukum/resultkit/result"
)

// MaxPageSize caps the number of rows returned by one page.
const MaxPageSize = 100

// PageRequest selects a 1-based page.
type PageRequest struct {
	Page     int `form:"page" json:"page"`
	PageSize int `form:"page_size" json:"page_size"`
}

// Normalize clamps the request into valid bounds.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.PageSize <= 0:
		p.PageSize = 20
	case p.PageSize > MaxPageSize:
		p.PageSize = MaxPageSize
	}
	return p
}

// Pagination describes the page that was returned.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Page is a slice of rows with its pagination info.
type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Paginate counts and fetches one page of q. q must already carry its model
// and filters. Query errors become failures via ErrorFrom.
func Paginate[T any](q *gorm.DB, req PageRequest, resource string) result.Result[Page[T]] {
	req = req.Normalize()

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return Fail[Page[T]](err, resource)
	}

	data := make([]T, 0, req.PageSize)
	offset := (req.Page - 1) * req.PageSize
	if err := q.Session(&gorm.Session{}).Offset(offset).Limit(req.PageSize).Find(&data).Error; err != nil {
		return Fail[Page[T]](err, resource)
	}

	totalPages := (int(total) + req.PageSize - 1) / req.PageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if req.Page > totalPages && total > 0 {
		return result.Failure[Page[T]](errors.Validation("page is out of range"))
	}

	return result.Success(Page[T]{
		Data: data,
		Pagination: Pagination{
			Page:       req.Page,
			PageSize:   req.PageSize,
			Total:      int(total),
			TotalPages: totalPages,
		},
	})
}
