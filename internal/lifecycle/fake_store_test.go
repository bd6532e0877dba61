package lifecycle

import (
	"context"
	"sort"
)

type record struct {
	id       int64
	parentID int64
	archived bool
}

func (r record) RecordID() int64 { return r.id }

// fakeStore keeps records in a map and counts writes so tests can assert
// how many round trips an operation made.
type fakeStore struct {
	rows map[int64]record

	writes      int
	setCalls    [][]int64
	vanishAfter bool
	failWith    error
}

func newFakeStore(rows ...record) *fakeStore {
	s := &fakeStore{rows: map[int64]record{}}
	for _, r := range rows {
		s.rows[r.id] = r
	}
	return s
}

func (s *fakeStore) FindByID(_ context.Context, id int64) (record, bool, error) {
	r, ok := s.rows[id]
	return r, ok, nil
}

func (s *fakeStore) FindAllByArchived(_ context.Context, archived bool) ([]record, error) {
	var out []record
	for _, r := range s.rows {
		if r.archived == archived {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out, nil
}

func (s *fakeStore) ExistsByID(_ context.Context, id int64) (bool, error) {
	_, ok := s.rows[id]
	return ok, nil
}

func (s *fakeStore) SetArchived(_ context.Context, ids []int64, from, to bool) (int64, error) {
	if s.failWith != nil {
		return 0, s.failWith
	}
	s.writes++
	s.setCalls = append(s.setCalls, append([]int64(nil), ids...))
	var n int64
	seen := map[int64]bool{}
	for _, id := range ids {
		r, ok := s.rows[id]
		if !ok || seen[id] || r.archived != from {
			continue
		}
		seen[id] = true
		r.archived = to
		s.rows[id] = r
		n++
	}
	if s.vanishAfter {
		for id := range seen {
			delete(s.rows, id)
		}
	}
	return n, nil
}

func (s *fakeStore) SetArchivedAll(_ context.Context, from, to bool) (int64, error) {
	s.writes++
	var n int64
	for id, r := range s.rows {
		if r.archived == from {
			r.archived = to
			s.rows[id] = r
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) Delete(_ context.Context, ids []int64, archived bool) (int64, error) {
	s.writes++
	var n int64
	for _, id := range ids {
		if r, ok := s.rows[id]; ok && r.archived == archived {
			delete(s.rows, id)
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) DeleteAll(_ context.Context, archived bool) (int64, error) {
	s.writes++
	var n int64
	for id, r := range s.rows {
		if r.archived == archived {
			delete(s.rows, id)
			n++
		}
	}
	return n, nil
}

// ArchivedChildIDs makes fakeStore usable as the child index of a cascade.
func (s *fakeStore) ArchivedChildIDs(_ context.Context, parentIDs []int64) ([]int64, error) {
	want := map[int64]bool{}
	for _, id := range parentIDs {
		want[id] = true
	}
	var out []int64
	for _, r := range s.rows {
		if r.archived && want[r.parentID] {
			out = append(out, r.id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
