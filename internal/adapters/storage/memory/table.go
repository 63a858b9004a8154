package memory

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"dairy-farm-management/internal/platform/apperr"
)

var errDuplicateEmail = apperr.Conflict("duplicate_email", "a user with this email already exists")

func isNotFound(err error) bool { return errors.Is(err, apperr.ErrNotFound) }

// table es el mapa por id que comparten todos los repos en memoria.
type table[T any] struct {
	mu   sync.RWMutex
	byID map[string]T
	what string
}

func newTable[T any](what string) *table[T] {
	return &table[T]{byID: make(map[string]T), what: what}
}

func (t *table[T]) insert(id string, v T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if strings.TrimSpace(id) == "" {
		return apperr.Invalid("id_required", t.what+" id required")
	}
	if _, exists := t.byID[id]; exists {
		return apperr.Conflict("already_exists", t.what+" already exists")
	}
	t.byID[id] = v
	return nil
}

func (t *table[T]) update(id string, v T) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.byID[id]; !exists {
		return apperr.NotFound(t.what)
	}
	t.byID[id] = v
	return nil
}

func (t *table[T]) get(id string) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	v, ok := t.byID[id]
	if !ok {
		var zero T
		return zero, apperr.NotFound(t.what)
	}
	return v, nil
}

func (t *table[T]) delete(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.byID[id]; !exists {
		return apperr.NotFound(t.what)
	}
	delete(t.byID, id)
	return nil
}

// find devuelve el primer elemento que cumple match.
func (t *table[T]) find(match func(T) bool) (T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, v := range t.byID {
		if match(v) {
			return v, nil
		}
	}
	var zero T
	return zero, apperr.NotFound(t.what)
}

// filter devuelve los que cumplen keep, ordenados con cmp (orden estable en dev).
func (t *table[T]) filter(keep func(T) bool, cmp func(a, b T) int) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]T, 0)
	for _, v := range t.byID {
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	if cmp != nil {
		slices.SortFunc(out, cmp)
	}
	return out
}

func (t *table[T]) count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byID)
}

// matchDate aplica filtros year/month/day (0 = sin filtro).
func matchDate(ts time.Time, year, month, day int) bool {
	y, m, d := ts.UTC().Date()
	if year != 0 && y != year {
		return false
	}
	if month != 0 && int(m) != month {
		return false
	}
	if day != 0 && d != day {
		return false
	}
	return true
}

func byTime(a, b time.Time) int { return a.Compare(b) }
