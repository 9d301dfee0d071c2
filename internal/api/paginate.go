package api

import (
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
)

type pageParams struct {
	Page  int
	Limit int
}

func parsePageParams(c *gin.Context, defaultLimit int) pageParams {
	p := pageParams{Page: 1, Limit: defaultLimit}
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		p.Limit = v
	}
	return p
}

func (p pageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// newPage wraps results in the list envelope, deriving next/previous
// links from the current request URL.
func newPage(c *gin.Context, p pageParams, count int64, results interface{}) Page {
	page := Page{Count: count, Results: results}
	if int64(p.Offset()+p.Limit) < count {
		page.Next = pageLink(c, p.Page+1)
	}
	if p.Page > 1 {
		page.Previous = pageLink(c, p.Page-1)
	}
	return page
}

func pageLink(c *gin.Context, page int) *string {
	u := *c.Request.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	link := absoluteURL(c, &u)
	return &link
}

func absoluteURL(c *gin.Context, u *url.URL) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if forwarded := c.GetHeader("X-Forwarded-Proto"); forwarded != "" {
		scheme = forwarded
	}
	out := *u
	out.Scheme = scheme
	out.Host = c.Request.Host
	return out.String()
}
