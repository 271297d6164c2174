package apiquery

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Clause is an explicit baseline predicate applied before any request
// directives. Callers that need one (tour listings hiding secret tours)
// pass it at construction; there is no hook that mutates queries from a
// distance.
type Clause struct {
	Query string
	Args  []any
}

// Schema is the per-collection contract the builder enforces: which columns
// requests may touch, which are never returned, and the fallback ordering.
type Schema struct {
	// Columns is the allow-list for filtering, sorting, and projection.
	// Directives naming anything else are dropped, not errored.
	Columns map[string]bool

	// AllColumns is the collection's complete column set, used when the
	// request carries no fields directive: everything here minus the
	// exclusions is selected. When empty, Columns doubles as the full set.
	AllColumns []string

	// AlwaysExclude columns are stripped from every projection, even when a
	// fields directive names them explicitly.
	AlwaysExclude []string

	// DefaultSort is used when the request carries no sort directive.
	// Defaults to created_at ascending.
	DefaultSort string

	// DefaultFilter, when set, constrains every query built against this
	// schema regardless of request input.
	DefaultFilter *Clause
}

func (s Schema) defaultSort() string {
	if s.DefaultSort != "" {
		return s.DefaultSort
	}
	return "created_at"
}

func (s Schema) excluded(column string) bool {
	for _, ex := range s.AlwaysExclude {
		if ex == column {
			return true
		}
	}
	return false
}

// Builder assembles a gorm query from request directives, validated against
// a Schema. It is a value type: every method returns a new Builder and the
// input query is never mutated in place, so a base query can be shared
// across requests safely.
type Builder struct {
	q      *gorm.DB
	schema Schema
	d      Directives
}

// New seeds a builder from a base query. The schema's default filter, if
// any, is applied immediately so no later step can run without it.
func New(base *gorm.DB, schema Schema, d Directives) Builder {
	q := base
	if schema.DefaultFilter != nil {
		q = q.Where(schema.DefaultFilter.Query, schema.DefaultFilter.Args...)
	}
	return Builder{q: q, schema: schema, d: d}
}

// Filter applies the request's predicates. Columns outside the schema
// allow-list are skipped; values are always bound as parameters.
func (b Builder) Filter() Builder {
	q := b.q
	for _, f := range b.d.Filters {
		if !b.schema.Columns[f.Column] {
			continue
		}
		q = q.Where(fmt.Sprintf("%s %s ?", f.Column, f.Op), f.Value)
	}
	b.q = q
	return b
}

// Sort applies the requested ordering, falling back to the schema default.
// Listed order is preserved so earlier fields take precedence.
func (b Builder) Sort() Builder {
	q := b.q
	applied := false
	for _, s := range b.d.Sort {
		if !b.schema.Columns[s.Column] {
			continue
		}
		dir := "ASC"
		if s.Desc {
			dir = "DESC"
		}
		q = q.Order(fmt.Sprintf("%s %s", s.Column, dir))
		applied = true
	}
	if !applied {
		q = q.Order(b.schema.defaultSort() + " ASC")
	}
	b.q = q
	return b
}

// SelectFields applies the projection. The id column always rides along, and
// always-excluded columns stay out even when requested by name. Without a
// fields directive the full schema minus exclusions is selected.
func (b Builder) SelectFields() Builder {
	cols := b.projection()
	if len(cols) > 0 {
		b.q = b.q.Select(strings.Join(cols, ", "))
	}
	return b
}

func (b Builder) projection() []string {
	if len(b.d.Fields) == 0 {
		if len(b.schema.AlwaysExclude) == 0 {
			return nil
		}
		full := b.schema.AllColumns
		if len(full) == 0 {
			full = make([]string, 0, len(b.schema.Columns))
			for col := range b.schema.Columns {
				full = append(full, col)
			}
		}
		cols := make([]string, 0, len(full)+1)
		for _, col := range full {
			if col != "id" && !b.schema.excluded(col) {
				cols = append(cols, col)
			}
		}
		return append(cols, "id")
	}

	cols := []string{"id"}
	for _, col := range b.d.Fields {
		if col == "id" || !b.schema.Columns[col] || b.schema.excluded(col) {
			continue
		}
		cols = append(cols, col)
	}
	return cols
}

// Paginate applies offset/limit from the page directives.
func (b Builder) Paginate() Builder {
	b.q = b.q.Offset(b.d.Offset()).Limit(b.d.Limit)
	return b
}

// Apply runs the canonical pipeline: filter, sort, select, paginate.
func (b Builder) Apply() Builder {
	return b.Filter().Sort().SelectFields().Paginate()
}

// Query exposes the assembled gorm query for execution.
func (b Builder) Query() *gorm.DB {
	return b.q
}
