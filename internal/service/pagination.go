package service

import "crm-commerce/internal/repository"

// PageResult is the list envelope returned by paginated endpoints.
type PageResult[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
	Total      int64 `json:"total"`
}

func newPageResult[T any](data []T, page repository.Page, total int64) PageResult[T] {
	page = page.Normalize()
	if data == nil {
		data = []T{}
	}
	return PageResult[T]{
		Data:       data,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages(total),
		Total:      total,
	}
}
