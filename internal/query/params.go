// Package query translates untrusted query strings into validated filter,
// sort and pagination specifications for catalog listings. Only whitelisted
// fields and operators are accepted; anything else is a validation error.
package query

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// ErrValidation is the sentinel wrapped by every parse failure. Handlers map
// it to a 400 response.
var ErrValidation = errors.New("invalid query parameter")

// DefaultLimit is the public catalog page size; AdminLimit applies to admin
// listings. MaxLimit caps client-supplied page sizes.
const (
	DefaultLimit = 12
	AdminLimit   = 20
	MaxLimit     = 100
)

// reserved parameters never become filters
var reserved = map[string]bool{
	"page":    true,
	"limit":   true,
	"sort":    true,
	"keyword": true,
	"fields":  true,
}

type fieldKind int

const (
	kindString fieldKind = iota
	kindNumber
	kindBool
)

type field struct {
	column     string
	kind       fieldKind
	comparable bool
}

// productFields is the explicit whitelist of filterable catalog fields
var productFields = map[string]field{
	"price":      {column: "price", kind: kindNumber, comparable: true},
	"stock":      {column: "stock", kind: kindNumber, comparable: true},
	"ratings":    {column: "ratings", kind: kindNumber, comparable: true},
	"totalSold":  {column: "total_sold", kind: kindNumber, comparable: true},
	"brand":      {column: "brand", kind: kindString},
	"sku":        {column: "sku", kind: kindString},
	"category":   {column: "category_id", kind: kindNumber},
	"seller":     {column: "seller_id", kind: kindNumber},
	"isFeatured": {column: "is_featured", kind: kindBool},
}

// sortFields maps accepted sort keys to columns
var sortFields = map[string]string{
	"createdAt": "created_at",
	"price":     "price",
	"name":      "name",
	"ratings":   "ratings",
	"totalSold": "total_sold",
	"stock":     "stock",
}

// comparison operators accepted in bracketed keys, e.g. price[gte]=10
var operators = map[string]string{
	"gt":  ">",
	"gte": ">=",
	"lt":  "<",
	"lte": "<=",
}

// Condition is a single SQL predicate with its bind arguments
type Condition struct {
	Expr string
	Args []interface{}
}

// ListParams is a validated filter/sort/pagination specification
type ListParams struct {
	Page       int
	Limit      int
	Keyword    string
	Conditions []Condition
	OrderBy    string
}

// Offset returns the row offset for the requested page
func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pages computes the page count for a total row count
func (p *ListParams) Pages(total int64) int {
	return int(math.Ceil(float64(total) / float64(p.Limit)))
}

// ParseListParams validates raw query parameters against the product field
// whitelist. defaultLimit distinguishes public (12) from admin (20) listings.
func ParseListParams(values url.Values, defaultLimit int) (*ListParams, error) {
	params := &ListParams{
		Page:    parsePositiveInt(values.Get("page"), 1),
		Limit:   parsePositiveInt(values.Get("limit"), defaultLimit),
		Keyword: strings.TrimSpace(values.Get("keyword")),
	}
	if params.Limit > MaxLimit {
		params.Limit = MaxLimit
	}

	orderBy, err := parseSort(values.Get("sort"))
	if err != nil {
		return nil, err
	}
	params.OrderBy = orderBy

	for key := range values {
		if reserved[key] {
			continue
		}
		cond, err := parseFilter(key, values.Get(key))
		if err != nil {
			return nil, err
		}
		params.Conditions = append(params.Conditions, cond)
	}

	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		params.Conditions = append(params.Conditions, Condition{
			Expr: "(name ILIKE ? OR description ILIKE ? OR brand ILIKE ?)",
			Args: []interface{}{kw, kw, kw},
		})
	}

	return params, nil
}

// parseFilter turns a single key/value pair into a predicate. Keys are either
// a bare field name (equality) or field[op] for comparisons.
func parseFilter(key, value string) (Condition, error) {
	name, op := key, ""
	if i := strings.IndexByte(key, '['); i >= 0 {
		if !strings.HasSuffix(key, "]") {
			return Condition{}, fmt.Errorf("malformed filter key %q: %w", key, ErrValidation)
		}
		name = key[:i]
		op = key[i+1 : len(key)-1]
	}

	f, ok := productFields[name]
	if !ok {
		return Condition{}, fmt.Errorf("unknown filter field %q: %w", name, ErrValidation)
	}

	if op != "" {
		sqlOp, ok := operators[op]
		if !ok {
			return Condition{}, fmt.Errorf("unknown operator %q on field %q: %w", op, name, ErrValidation)
		}
		if !f.comparable {
			return Condition{}, fmt.Errorf("field %q does not support comparisons: %w", name, ErrValidation)
		}
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return Condition{}, fmt.Errorf("field %q expects a number: %w", name, ErrValidation)
		}
		return Condition{Expr: f.column + " " + sqlOp + " ?", Args: []interface{}{n}}, nil
	}

	switch f.kind {
	case kindNumber:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return Condition{}, fmt.Errorf("field %q expects a number: %w", name, ErrValidation)
		}
		return Condition{Expr: f.column + " = ?", Args: []interface{}{n}}, nil
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return Condition{}, fmt.Errorf("field %q expects a boolean: %w", name, ErrValidation)
		}
		return Condition{Expr: f.column + " = ?", Args: []interface{}{b}}, nil
	default:
		return Condition{Expr: f.column + " = ?", Args: []interface{}{value}}, nil
	}
}

// parseSort turns a comma-separated field list into an ORDER BY clause. A
// leading '-' means descending; default is newest first.
func parseSort(raw string) (string, error) {
	if raw == "" {
		return "created_at DESC", nil
	}

	var clauses []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		dir := "ASC"
		if strings.HasPrefix(part, "-") {
			dir = "DESC"
			part = part[1:]
		}
		column, ok := sortFields[part]
		if !ok {
			return "", fmt.Errorf("unknown sort field %q: %w", part, ErrValidation)
		}
		clauses = append(clauses, column+" "+dir)
	}
	if len(clauses) == 0 {
		return "created_at DESC", nil
	}
	return strings.Join(clauses, ", "), nil
}

func parsePositiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
