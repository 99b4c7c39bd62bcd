package api

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

const maxPageSize = 100

var errInvalidPage = errors.New("invalid page")

// pageRequest is the page and limit of a paginated list request
type pageRequest struct {
	Page  int
	Limit int
}

func (p pageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// parsePage reads the page and limit query params. A missing or bad limit
// falls back to defaultLimit.
func parsePage(c *gin.Context, defaultLimit int) (pageRequest, error) {
	p := pageRequest{Page: 1, Limit: defaultLimit}

	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return p, errInvalidPage
		}
		p.Page = n
	}
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			p.Limit = n
		}
	}
	if p.Limit > maxPageSize {
		p.Limit = maxPageSize
	}
	return p, nil
}

// newPage wraps one page of results with links to its neighbours
func newPage[T any](c *gin.Context, p pageRequest, results []T, total int64) (types.Page[T], error) {
	if p.Page > 1 && int64(p.Offset()) >= total {
		return types.Page[T]{}, errInvalidPage
	}
	if results == nil {
		results = []T{}
	}

	page := types.Page[T]{Count: total, Results: results}
	if int64(p.Offset()+len(results)) < total {
		next := pageURL(c, p.Page+1)
		page.Next = &next
	}
	if p.Page > 1 {
		prev := pageURL(c, p.Page-1)
		page.Previous = &prev
	}
	return page, nil
}

func pageURL(c *gin.Context, page int) string {
	u := url.URL{
		Scheme: "http",
		Host:   c.Request.Host,
		Path:   c.Request.URL.Path,
	}
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		u.Scheme = "https"
	}

	q := c.Request.URL.Query()
	if page == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// respondPageError answers an out of range page the way list endpoints do
func respondPageError(c *gin.Context) {
	respondError(c, service.ErrNotFound)
}
