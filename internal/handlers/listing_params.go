package handlers

import (
	"strconv"

	"go-oilmill/internal/listing"

	"github.com/gin-gonic/gin"
)

// filterAndPage applies the optional search/page/per_page query params shared
// by every admin table. With no params the full dump goes out and the admin UI
// filters client-side, which is the historical behavior; the params let big
// tables move that work server-side without a new endpoint.
func filterAndPage[T any](c *gin.Context, rows []T, fields func(T) []string) []T {
	rows = listing.Filter(rows, c.Query("search"), fields)

	page, _ := strconv.Atoi(c.Query("page"))
	perPage, _ := strconv.Atoi(c.Query("per_page"))
	if page > 0 && perPage > 0 {
		rows = listing.Page(rows, page, perPage)
	}
	return rows
}
