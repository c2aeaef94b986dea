package journal

import (
	"slices"
	"strings"

	"github.com/pbaille/journal/internal/domain"
)

// List returns the entries matching f, pinned entries first and newest
// first within each group. Entries with equal keys keep collection order.
func (s *Store) List(f domain.Filter) []domain.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if Matches(e, f) {
			out = append(out, e.Clone())
		}
	}
	SortEntries(out)
	return out
}

// Matches reports whether e passes the search and tag conditions of f.
func Matches(e domain.Entry, f domain.Filter) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(e.Prompt), q) &&
			!strings.Contains(strings.ToLower(e.Response), q) {
			return false
		}
	}
	for _, tag := range f.Tags {
		if !e.HasTag(tag) {
			return false
		}
	}
	return true
}

// SortEntries orders entries pinned first, then by CreatedAt descending.
func SortEntries(entries []domain.Entry) {
	slices.SortStableFunc(entries, func(a, b domain.Entry) int {
		if a.IsPinned != b.IsPinned {
			if a.IsPinned {
				return -1
			}
			return 1
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

// AllTags returns every tag used by any entry, deduplicated and sorted.
func (s *Store) AllTags() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	tags := []string{}
	for _, e := range s.entries {
		tags = append(tags, e.Tags...)
	}
	slices.Sort(tags)
	return slices.Compact(tags)
}
