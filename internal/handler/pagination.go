package handler

import (
	"fmt"
	"net/url"
)

// AdminPagination holds pagination data for admin templates.
type AdminPagination struct {
	CurrentPage int
	TotalPages  int
	TotalItems  int64
	PerPage     int
	HasPrev     bool
	HasNext     bool
	PrevPage    int
	NextPage    int
	Pages       []AdminPaginationPage
	BaseURL     string
	QueryString string
}

// AdminPaginationPage represents a single page link in admin pagination.
type AdminPaginationPage struct {
	Number     int
	URL        string
	IsCurrent  bool
	IsEllipsis bool
}

// BuildAdminPagination creates pagination data for admin list templates.
// baseURL is the path without query string (e.g. "/admin/actividad");
// queryParams are the current query parameters to preserve across pages.
func BuildAdminPagination(currentPage int, totalItems int64, perPage int, baseURL string, queryParams url.Values) AdminPagination {
	totalPages := int((totalItems + int64(perPage) - 1) / int64(perPage))
	if totalPages < 1 {
		totalPages = 1
	}
	if currentPage > totalPages {
		currentPage = totalPages
	}

	p := AdminPagination{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		PerPage:     perPage,
		HasPrev:     currentPage > 1,
		HasNext:     currentPage < totalPages,
		PrevPage:    currentPage - 1,
		NextPage:    currentPage + 1,
		BaseURL:     baseURL,
	}

	// Preserve filters but never the page parameter itself.
	if queryParams != nil {
		params := make(url.Values)
		for k, v := range queryParams {
			if k != "page" && len(v) > 0 && v[0] != "" {
				params[k] = v
			}
		}
		if len(params) > 0 {
			p.QueryString = params.Encode()
		}
	}

	buildURL := func(page int) string {
		if p.QueryString != "" {
			return fmt.Sprintf("%s?%s&page=%d", baseURL, p.QueryString, page)
		}
		return fmt.Sprintf("%s?page=%d", baseURL, page)
	}

	// Show at most 5 page links around the current page, with ellipsis
	// markers toward the first and last pages.
	start := currentPage - 2
	end := currentPage + 2
	if start < 1 {
		start = 1
		end = 5
	}
	if end > totalPages {
		end = totalPages
		start = end - 4
		if start < 1 {
			start = 1
		}
	}

	if start > 1 {
		p.Pages = append(p.Pages, AdminPaginationPage{Number: 1, URL: buildURL(1)})
		if start > 2 {
			p.Pages = append(p.Pages, AdminPaginationPage{IsEllipsis: true})
		}
	}
	for i := start; i <= end; i++ {
		p.Pages = append(p.Pages, AdminPaginationPage{
			Number:    i,
			URL:       buildURL(i),
			IsCurrent: i == currentPage,
		})
	}
	if end < totalPages {
		if end < totalPages-1 {
			p.Pages = append(p.Pages, AdminPaginationPage{IsEllipsis: true})
		}
		p.Pages = append(p.Pages, AdminPaginationPage{Number: totalPages, URL: buildURL(totalPages)})
	}

	return p
}
