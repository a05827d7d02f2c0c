package response

import (
	"fmt"
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 32
	MaxPageSize     = 100

	// MaxPage keeps Offset within int32 for any page size.
	MaxPage = math.MaxInt32 / MaxPageSize
)

// PageRequest is the page/page_size pair read from query params.
type PageRequest struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// NewPageRequest applies the defaults to missing values and clamps
// page_size to MaxPageSize and page to MaxPage.
func NewPageRequest(page, pageSize int) PageRequest {
	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return PageRequest{Page: page, PageSize: pageSize}
}

// PageRequestFrom reads ?page= and ?page_size= (or ?limit=) from the request.
func PageRequestFrom(c *gin.Context) PageRequest {
	size := queryInt(c, "page_size")
	if size == 0 {
		size = queryInt(c, "limit")
	}
	return NewPageRequest(queryInt(c, "page"), size)
}

func (p PageRequest) Offset() int { return (p.Page - 1) * p.PageSize }

func (p PageRequest) Limit() int { return p.PageSize }

// Pagination is the metadata block of a paginated data payload.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewPagination computes total_pages for the request and total item count.
func NewPagination(p PageRequest, total int64) Pagination {
	p = NewPageRequest(p.Page, p.PageSize)
	pages := int(total / int64(p.PageSize))
	if total%int64(p.PageSize) > 0 {
		pages++
	}
	return Pagination{Page: p.Page, Limit: p.PageSize, Total: total, TotalPages: pages}
}

// PageData is the data payload of a paginated success response.
type PageData struct {
	Items      any        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// Paginated sends Success with {"items": [...], "pagination": {...}}.
func Paginated(c *gin.Context, message string, items any, page Pagination) {
	if isNil(items) {
		panic(fmt.Errorf("response: paginated items: %w", ErrNilData))
	}
	Success(c, message, PageData{Items: items, Pagination: page})
}

func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}
