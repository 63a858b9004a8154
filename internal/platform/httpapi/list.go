package httpapi

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"dairy-farm-management/internal/platform/apperr"
)

// WriteList responde listados con la convención de "detail" cuando no hay resultados:
//   - con resultados: 200 + array
//   - sin resultados y con filtros: 404 + detail
//   - sin resultados y sin filtros: 200 + detail
func WriteList[T any](w http.ResponseWriter, items []T, filtered bool, noun string) {
	if len(items) > 0 {
		WriteJSON(w, http.StatusOK, items)
		return
	}
	if filtered {
		Detail(w, http.StatusNotFound, fmt.Sprintf("No %s found matching the provided filters.", noun))
		return
	}
	Detail(w, http.StatusOK, fmt.Sprintf("No %s found.", noun))
}

// Query lee filtros del query string y recuerda si se usó alguno.
type Query struct {
	values   url.Values
	filtered bool
	errs     map[string]string
}

func NewQuery(r *http.Request) *Query {
	return &Query{values: r.URL.Query(), errs: map[string]string{}}
}

func (q *Query) String(key string) string {
	v := strings.TrimSpace(q.values.Get(key))
	if v != "" {
		q.filtered = true
	}
	return v
}

// Int devuelve 0 si no viene; valida rango [min, max].
func (q *Query) Int(key string, min, max int) int {
	raw := q.String(key)
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < min || n > max {
		q.errs[key] = fmt.Sprintf("must be an integer between %d and %d", min, max)
		return 0
	}
	return n
}

func (q *Query) Bool(key string) *bool {
	raw := q.String(key)
	if raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		q.errs[key] = "must be true or false"
		return nil
	}
	return &b
}

// OneOf valida contra valores permitidos.
func (q *Query) OneOf(key string, allowed ...string) string {
	raw := q.String(key)
	if raw == "" {
		return ""
	}
	for _, a := range allowed {
		if strings.EqualFold(a, raw) {
			return a
		}
	}
	q.errs[key] = "must be one of: " + strings.Join(allowed, ", ")
	return ""
}

// Year y Month son los filtros de fecha más comunes.
func (q *Query) Year() int  { return q.Int("year", 1900, 9999) }
func (q *Query) Month() int { return q.Int("month", 1, 12) }
func (q *Query) Day() int   { return q.Int("day", 1, 31) }

func (q *Query) Filtered() bool { return q.filtered }

func (q *Query) Err() error {
	if len(q.errs) == 0 {
		return nil
	}
	return apperr.InvalidFields(q.errs)
}
