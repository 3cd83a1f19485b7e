// Package selection holds the user's ordered, deduplicated stack of catalog apps.
package selection

import (
	"slices"

	"github.com/theirongolddev/stackcost/internal/catalog"
)

// Resolver looks up apps by id. *catalog.Catalog implements it.
type Resolver interface {
	App(id int) (catalog.App, bool)
}

// Set is an ordered collection of app ids with no duplicates. Apps are
// resolved against the catalog on every read; no app data is cached.
// A Set is not safe for concurrent use.
type Set struct {
	r   Resolver
	ids []int
	has map[int]bool
}

// New returns an empty set bound to r.
func New(r Resolver) *Set {
	return &Set{r: r, has: make(map[int]bool)}
}

// Add appends app unless its id is already present. It reports whether the set changed.
func (s *Set) Add(app catalog.App) bool {
	if s.has[app.ID] {
		return false
	}
	s.ids = append(s.ids, app.ID)
	s.has[app.ID] = true
	return true
}

// Remove drops id. Absent ids are ignored.
func (s *Set) Remove(id int) bool {
	if !s.has[id] {
		return false
	}
	delete(s.has, id)
	s.ids = slices.DeleteFunc(s.ids, func(v int) bool { return v == id })
	return true
}

// Replace discards the current contents and rebuilds from ids in order.
// Ids missing from the catalog are dropped; repeats keep the first occurrence.
// Template application, file restore, and link decode all come through here.
func (s *Set) Replace(ids []int) {
	s.ids = make([]int, 0, len(ids))
	s.has = make(map[int]bool, len(ids))
	for _, id := range ids {
		if s.has[id] {
			continue
		}
		if _, ok := s.r.App(id); !ok {
			continue
		}
		s.ids = append(s.ids, id)
		s.has[id] = true
	}
}

// Contains reports whether id is in the set.
func (s *Set) Contains(id int) bool { return s.has[id] }

// List returns the selected apps in order. Ids the catalog no longer knows are skipped.
func (s *Set) List() []catalog.App {
	out := make([]catalog.App, 0, len(s.ids))
	for _, id := range s.ids {
		if app, ok := s.r.App(id); ok {
			out = append(out, app)
		}
	}
	return out
}

// IDs returns the ids of List, in order.
func (s *Set) IDs() []int {
	out := make([]int, 0, len(s.ids))
	for _, id := range s.ids {
		if _, ok := s.r.App(id); ok {
			out = append(out, id)
		}
	}
	return out
}

// Len returns the number of ids that currently resolve.
func (s *Set) Len() int { return len(s.IDs()) }

// Clear empties the set.
func (s *Set) Clear() { s.Replace(nil) }

// Rebind attaches a new catalog and reconciles the contents against it.
func (s *Set) Rebind(r Resolver) {
	ids := slices.Clone(s.ids)
	s.r = r
	s.Replace(ids)
}
