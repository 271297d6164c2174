package apiquery

import (
	"net/url"
	"strconv"
	"strings"

	pkgerrors "github.com/tourhub-io/tourhub-backend/pkg/errors"
)

const (
	// DefaultLimit is the page size applied when the request omits limit.
	// There is deliberately no maximum: callers asked for the original
	// behavior to be preserved rather than silently capped.
	DefaultLimit = 100
	DefaultPage  = 1
)

// Reserved keys never become filters.
var reservedKeys = map[string]bool{
	"page":   true,
	"sort":   true,
	"limit":  true,
	"fields": true,
}

// Filter is one equality/range predicate parsed from the query string.
type Filter struct {
	Column string
	Op     string
	Value  string
}

// SortField is one ordering directive, applied in listed order.
type SortField struct {
	Column string
	Desc   bool
}

// Directives is the ephemeral, per-request query intent: filters, ordering,
// projection, and pagination. It lives for exactly one request.
type Directives struct {
	Page    int
	Limit   int
	Sort    []SortField
	Fields  []string
	Filters []Filter
}

var bracketOps = map[string]string{
	"gte": ">=",
	"gt":  ">",
	"lte": "<=",
	"lt":  "<",
	"ne":  "<>",
}

// Parse builds Directives from untrusted request parameters. Page and limit
// must be positive integers; everything else is carried through for the
// builder to validate against the collection schema.
func Parse(values url.Values) (Directives, error) {
	d := Directives{Page: DefaultPage, Limit: DefaultLimit}

	if raw := strings.TrimSpace(values.Get("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return Directives{}, pkgerrors.New(pkgerrors.CodeValidation, "page must be a positive integer").
				WithDetails(map[string]any{"page": raw})
		}
		d.Page = page
	}

	if raw := strings.TrimSpace(values.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return Directives{}, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a positive integer").
				WithDetails(map[string]any{"limit": raw})
		}
		d.Limit = limit
	}

	if raw := strings.TrimSpace(values.Get("sort")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			field := SortField{Column: part}
			if strings.HasPrefix(part, "-") {
				field.Column = part[1:]
				field.Desc = true
			}
			d.Sort = append(d.Sort, field)
		}
	}

	if raw := strings.TrimSpace(values.Get("fields")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				d.Fields = append(d.Fields, part)
			}
		}
	}

	for key, vals := range values {
		if reservedKeys[key] || len(vals) == 0 {
			continue
		}
		column, op := splitBracketKey(key)
		for _, val := range vals {
			d.Filters = append(d.Filters, Filter{Column: column, Op: op, Value: val})
		}
	}

	return d, nil
}

// splitBracketKey decomposes "price[gte]" into ("price", ">="). A bare key is
// an equality filter; an unknown bracket operator falls back to equality.
func splitBracketKey(key string) (string, string) {
	open := strings.IndexByte(key, '[')
	if open < 0 || !strings.HasSuffix(key, "]") {
		return key, "="
	}
	column := key[:open]
	if op, ok := bracketOps[key[open+1:len(key)-1]]; ok {
		return column, op
	}
	return column, "="
}

// Offset computes the rows skipped before this page.
func (d Directives) Offset() int {
	return (d.Page - 1) * d.Limit
}
