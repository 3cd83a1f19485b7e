package selection

import (
	"slices"
	"testing"

	"github.com/theirongolddev/stackcost/internal/catalog"
)

type fakeCatalog map[int]catalog.App

func (f fakeCatalog) App(id int) (catalog.App, bool) {
	a, ok := f[id]
	return a, ok
}

func newCatalog(ids ...int) fakeCatalog {
	f := fakeCatalog{}
	for _, id := range ids {
		f[id] = catalog.App{ID: id, Name: "app"}
	}
	return f
}

func TestAddIsIdempotent(t *testing.T) {
	cat := newCatalog(1, 2)
	s := New(cat)
	s.Add(cat[1])
	s.Add(cat[2])
	once := s.IDs()

	if s.Add(cat[1]) {
		t.Error("second Add reported a change")
	}
	if got := s.IDs(); !slices.Equal(got, once) {
		t.Errorf("IDs after repeat add = %v, want %v", got, once)
	}
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	cat := newCatalog(1)
	s := New(cat)
	s.Add(cat[1])
	if s.Remove(9) {
		t.Error("Remove of absent id reported a change")
	}
	if !s.Remove(1) || s.Contains(1) || s.Len() != 0 {
		t.Error("Remove(1) did not remove")
	}
}

func TestReplaceDropsUnknownAndDuplicates(t *testing.T) {
	cat := newCatalog(1, 2, 3)
	s := New(cat)
	s.Add(cat[3])

	s.Replace([]int{2, 99, 1, 2})
	if got := s.IDs(); !slices.Equal(got, []int{2, 1}) {
		t.Errorf("IDs = %v, want [2 1]", got)
	}
	if s.Contains(3) {
		t.Error("Replace kept prior contents")
	}
	apps := s.List()
	if len(apps) != 2 || apps[0].ID != 2 {
		t.Errorf("List = %+v", apps)
	}
}

func TestListResolvesOnRead(t *testing.T) {
	cat := newCatalog(1, 2)
	s := New(cat)
	s.Add(cat[1])
	s.Add(cat[2])

	delete(cat, 1)
	if got := s.IDs(); !slices.Equal(got, []int{2}) {
		t.Errorf("IDs = %v, want [2]", got)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d", s.Len())
	}
}

func TestRebind(t *testing.T) {
	old := newCatalog(1, 2, 3)
	s := New(old)
	s.Replace([]int{3, 1, 2})

	s.Rebind(newCatalog(1, 3))
	if got := s.IDs(); !slices.Equal(got, []int{3, 1}) {
		t.Errorf("IDs = %v, want [3 1]", got)
	}
}

func TestClear(t *testing.T) {
	cat := newCatalog(1)
	s := New(cat)
	s.Add(cat[1])
	s.Clear()
	if s.Len() != 0 || s.Contains(1) {
		t.Error("Clear left entries")
	}
}
