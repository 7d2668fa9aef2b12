package inmemdb

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/certificate"
	"github.com/trezcool/academia/core/course"
	"github.com/trezcool/academia/core/enquiry"
	"github.com/trezcool/academia/core/enrollment"
	"github.com/trezcool/academia/core/progress"
	"github.com/trezcool/academia/core/quiz"
	"github.com/trezcool/academia/core/testimonial"
	"github.com/trezcool/academia/core/user"
)

// DB holds one table per entity. Each table is guarded by its own RWMutex.
type DB struct {
	users        *table[user.User]
	courses      *table[course.Course]
	modules      *table[course.Module]
	quizzes      *table[quiz.Quiz]
	attempts     *table[quiz.Attempt]
	progress     *table[progress.Progress]
	certificates *table[certificate.Certificate]
	enrollments  *table[enrollment.Enrollment]
	enquiries    *table[enquiry.Enquiry]
	testimonials *table[testimonial.Testimonial]
}

func Open() *DB {
	return &DB{
		users:        newTable[user.User](),
		courses:      newTable[course.Course](),
		modules:      newTable[course.Module](),
		quizzes:      newTable[quiz.Quiz](),
		attempts:     newTable[quiz.Attempt](),
		progress:     newTable[progress.Progress](),
		certificates: newTable[certificate.Certificate](),
		enrollments:  newTable[enrollment.Enrollment](),
		enquiries:    newTable[enquiry.Enquiry](),
		testimonials: newTable[testimonial.Testimonial](),
	}
}

type table[T any] struct {
	mu   sync.RWMutex
	rows map[string]T
	ids  []string // insertion order
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]T)}
}

// the helpers below expect the caller to hold the table lock

func (t *table[T]) get(id string) (T, bool) {
	row, ok := t.rows[id]
	return row, ok
}

func (t *table[T]) insert(id string, row T) {
	t.rows[id] = row
	t.ids = append(t.ids, id)
}

func (t *table[T]) update(id string, row T) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	t.rows[id] = row
	return true
}

func (t *table[T]) delete(id string) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	for i, rid := range t.ids {
		if rid == id {
			t.ids = append(t.ids[:i], t.ids[i+1:]...)
			break
		}
	}
	return true
}

// filter returns the rows matching keep in insertion order. A nil keep matches every row.
func (t *table[T]) filter(keep func(T) bool) []T {
	rows := make([]T, 0, len(t.ids))
	for _, id := range t.ids {
		if row := t.rows[id]; keep == nil || keep(row) {
			rows = append(rows, row)
		}
	}
	return rows
}

func (t *table[T]) find(match func(T) bool) (T, bool) {
	for _, id := range t.ids {
		if row := t.rows[id]; match(row) {
			return row, true
		}
	}
	var zero T
	return zero, false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// sortBy orders rows by the given fields, looking each field up with cmp.
// Unknown fields are ignored.
func sortBy[T any](rows []T, ordering []core.DBOrdering, cmp func(a, b T, field string) (int, bool)) {
	if len(ordering) == 0 {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, ord := range ordering {
			c, ok := cmp(rows[i], rows[j], ord.Field)
			if !ok || c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
}

func compareStrings(a, b string) int { return strings.Compare(strings.ToLower(a), strings.ToLower(b)) }

func compareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

func reversed[T any](rows []T) []T {
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows
}
