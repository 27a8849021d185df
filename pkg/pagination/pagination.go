package pagination

import (
	"slices"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100
	DefaultSortBy  = "id"
	DefaultSort    = "desc"
)

// Params holds normalized listing parameters.
type Params struct {
	Page          int
	PerPage       int
	Offset        int
	SortBy        string
	SortDirection string
}

// Order returns the SQL ordering clause for the params.
func (p Params) Order() string {
	return p.SortBy + " " + p.SortDirection
}

// Normalize validates raw query values against an allow-list of sortable
// columns. Out-of-range or unknown values fall back to the defaults.
func Normalize(page, perPage int, sortBy, sortDirection string, sortable []string) Params {
	if page < 1 {
		page = DefaultPage
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	if sortBy != DefaultSortBy && !slices.Contains(sortable, sortBy) {
		sortBy = DefaultSortBy
	}
	if sortDirection != "asc" && sortDirection != "desc" {
		sortDirection = DefaultSort
	}
	return Params{
		Page:          page,
		PerPage:       perPage,
		Offset:        (page - 1) * perPage,
		SortBy:        sortBy,
		SortDirection: sortDirection,
	}
}

// Parse extracts and normalizes listing parameters from query values.
// "sort" is accepted as an alias of "sort_direction".
func Parse(c *gin.Context, sortable []string) Params {
	page, _ := strconv.Atoi(c.DefaultQuery("current_page", strconv.Itoa(DefaultPage)))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(DefaultPerPage)))
	sortBy := c.DefaultQuery("sort_by", DefaultSortBy)
	direction := c.Query("sort_direction")
	if direction == "" {
		direction = c.DefaultQuery("sort", DefaultSort)
	}
	return Normalize(page, perPage, sortBy, direction, sortable)
}
