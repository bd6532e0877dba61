package sqlite

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"taskboard/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "test.db"), Options{}, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func mustTx(t *testing.T, s *Store, fn func(tx *Tx) error) {
	t.Helper()
	if err := s.WithTx(context.Background(), fn); err != nil {
		t.Fatalf("tx: %v", err)
	}
}

func seedBoard(t *testing.T, s *Store, name string) models.Board {
	t.Helper()
	var b models.Board
	mustTx(t, s, func(tx *Tx) error {
		var err error
		b, err = tx.Boards().Insert(context.Background(), name, "")
		return err
	})
	return b
}

func seedTask(t *testing.T, s *Store, boardID int64, name string) models.Task {
	t.Helper()
	var task models.Task
	mustTx(t, s, func(tx *Tx) error {
		var err error
		task, err = tx.Tasks().Insert(context.Background(), models.Task{
			BoardID: boardID,
			Name:    name,
			Status:  models.TaskStatusTodo,
			Icon:    models.TaskIconBug,
		})
		return err
	})
	return task
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := Open("", Options{}, nil); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestInsertAndFind(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	b := seedBoard(t, s, "Sprint")
	task := seedTask(t, s, b.ID, "Write docs")

	if b.ID == 0 || b.Archived || b.CreatedAt.IsZero() {
		t.Errorf("unexpected board %+v", b)
	}
	if task.BoardID != b.ID || task.Status != models.TaskStatusTodo || task.Icon != models.TaskIconBug {
		t.Errorf("unexpected task %+v", task)
	}

	mustTx(t, s, func(tx *Tx) error {
		got, ok, err := tx.Boards().FindByID(ctx, b.ID)
		if err != nil || !ok || !got.SameAs(b) {
			t.Errorf("FindByID = %+v, %v, %v", got, ok, err)
		}
		_, ok, err = tx.Boards().FindByID(ctx, 999)
		if err != nil || ok {
			t.Errorf("missing board: ok=%v err=%v", ok, err)
		}
		exists, err := tx.Tasks().ExistsByID(ctx, task.ID)
		if err != nil || !exists {
			t.Errorf("ExistsByID = %v, %v", exists, err)
		}
		return nil
	})
}

func TestSetArchived_IsConditional(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	a := seedBoard(t, s, "A")
	b := seedBoard(t, s, "B")

	mustTx(t, s, func(tx *Tx) error {
		repo := tx.Boards()

		n, err := repo.SetArchived(ctx, []int64{a.ID, a.ID, b.ID, 999}, false, true)
		if err != nil || n != 2 {
			t.Fatalf("archive = %d, %v; want 2", n, err)
		}
		n, err = repo.SetArchived(ctx, []int64{a.ID}, false, true)
		if err != nil || n != 0 {
			t.Fatalf("archive again = %d, %v; want 0", n, err)
		}
		n, err = repo.SetArchived(ctx, nil, false, true)
		if err != nil || n != 0 {
			t.Fatalf("archive none = %d, %v; want 0", n, err)
		}

		archived, err := repo.FindAllByArchived(ctx, true)
		if err != nil || len(archived) != 2 {
			t.Fatalf("FindAllByArchived = %d, %v", len(archived), err)
		}

		n, err = repo.SetArchivedAll(ctx, true, false)
		if err != nil || n != 2 {
			t.Fatalf("restore all = %d, %v; want 2", n, err)
		}
		return nil
	})
}

func TestDelete_OnlyArchived(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	a := seedBoard(t, s, "A")
	b := seedBoard(t, s, "B")

	mustTx(t, s, func(tx *Tx) error {
		repo := tx.Boards()
		if n, _ := repo.Delete(ctx, []int64{a.ID, b.ID}, true); n != 0 {
			t.Errorf("deleted %d active boards", n)
		}
		if _, err := repo.SetArchived(ctx, []int64{a.ID}, false, true); err != nil {
			return err
		}
		if n, _ := repo.Delete(ctx, []int64{a.ID, b.ID}, true); n != 1 {
			t.Errorf("deleted %d, want 1", n)
		}
		if _, err := repo.SetArchived(ctx, []int64{b.ID}, false, true); err != nil {
			return err
		}
		if n, _ := repo.DeleteAll(ctx, true); n != 1 {
			t.Errorf("DeleteAll = %d, want 1", n)
		}
		return nil
	})
}

func TestDeleteBoard_CascadesToAllTasks(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	b := seedBoard(t, s, "Doomed")
	active := seedTask(t, s, b.ID, "active")
	archived := seedTask(t, s, b.ID, "archived")
	other := seedBoard(t, s, "Other")
	survivor := seedTask(t, s, other.ID, "survivor")

	mustTx(t, s, func(tx *Tx) error {
		if _, err := tx.Tasks().SetArchived(ctx, []int64{archived.ID}, false, true); err != nil {
			return err
		}
		if _, err := tx.Boards().SetArchived(ctx, []int64{b.ID}, false, true); err != nil {
			return err
		}
		n, err := tx.Boards().Delete(ctx, []int64{b.ID}, true)
		if err != nil || n != 1 {
			t.Fatalf("delete board = %d, %v", n, err)
		}
		return nil
	})

	mustTx(t, s, func(tx *Tx) error {
		for _, id := range []int64{active.ID, archived.ID} {
			if ok, _ := tx.Tasks().ExistsByID(ctx, id); ok {
				t.Errorf("task %d survived its board", id)
			}
		}
		if ok, _ := tx.Tasks().ExistsByID(ctx, survivor.ID); !ok {
			t.Error("task of another board was removed")
		}
		return nil
	})
}

func TestInsertTask_UnknownBoardIsIntegrityError(t *testing.T) {
	s := openTestStore(t)
	err := s.WithTx(context.Background(), func(tx *Tx) error {
		_, err := tx.Tasks().Insert(context.Background(), models.Task{BoardID: 404, Name: "orphan"})
		return err
	})
	if !errors.Is(err, models.ErrIntegrity) {
		t.Fatalf("error = %v, want ErrIntegrity", err)
	}
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(tx *Tx) error {
		if _, err := tx.Boards().Insert(ctx, "Ghost", ""); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want boom", err)
	}

	mustTx(t, s, func(tx *Tx) error {
		all, err := tx.Boards().FindAllByArchived(ctx, false)
		if err != nil {
			return err
		}
		if len(all) != 0 {
			t.Errorf("rolled back insert is visible: %+v", all)
		}
		return nil
	})
}

func TestNamesByPrefix(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	b1 := seedBoard(t, s, "New Board")
	seedBoard(t, s, "new board 2")
	seedBoard(t, s, "Roadmap")
	seedBoard(t, s, "New_Board")

	seedTask(t, s, b1.ID, "New Task")
	gone := seedTask(t, s, b1.ID, "New Task 2")
	seedTask(t, s, b1.ID, "Other")
	b2 := seedBoard(t, s, "Second")
	seedTask(t, s, b2.ID, "New Task 3")

	mustTx(t, s, func(tx *Tx) error {
		names, err := tx.Boards().NamesByPrefix(ctx, "New Board")
		if err != nil {
			return err
		}
		sort.Strings(names)
		if want := []string{"New Board", "new board 2"}; !reflect.DeepEqual(names, want) {
			t.Errorf("board names = %v, want %v", names, want)
		}

		if _, err := tx.Tasks().SetArchived(ctx, []int64{gone.ID}, false, true); err != nil {
			return err
		}
		names, err = tx.Tasks().ActiveNamesByPrefix(ctx, b1.ID, "new task")
		if err != nil {
			return err
		}
		if want := []string{"New Task"}; !reflect.DeepEqual(names, want) {
			t.Errorf("task names = %v, want %v", names, want)
		}
		return nil
	})
}

func TestLower_FoldsNonASCII(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	school := seedBoard(t, s, "ÉCOLE")
	seedBoard(t, s, "NUOVA ATTIVITÀ")
	seedBoard(t, s, "Nuova attività 3")
	seedBoard(t, s, "Nuova")

	mustTx(t, s, func(tx *Tx) error {
		for _, filter := range []string{"ÉCOLE", "école", "ÉCO", "cole"} {
			boards, total, err := tx.Boards().FindPage(ctx, Filter{NameContains: filter}, 0, 10)
			if err != nil {
				return err
			}
			if total != 1 || boards[0].ID != school.ID {
				t.Errorf("filter %q: %+v total=%d", filter, boards, total)
			}
		}

		names, err := tx.Boards().NamesByPrefix(ctx, "Nuova Attività")
		if err != nil {
			return err
		}
		sort.Strings(names)
		if want := []string{"NUOVA ATTIVITÀ", "Nuova attività 3"}; !reflect.DeepEqual(names, want) {
			t.Errorf("board names = %v, want %v", names, want)
		}
		return nil
	})
}

func TestFindPage_OffsetBeyondInt(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedBoard(t, s, "only")

	mustTx(t, s, func(tx *Tx) error {
		boards, total, err := tx.Boards().FindPage(ctx, Filter{}, math.MaxInt/10, 20)
		if err != nil {
			return err
		}
		if total != 1 || len(boards) != 0 {
			t.Errorf("far page: %+v total=%d", boards, total)
		}
		return nil
	})
}

func TestArchivedChildIDs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	b1 := seedBoard(t, s, "one")
	b2 := seedBoard(t, s, "two")
	b3 := seedBoard(t, s, "three")
	t1 := seedTask(t, s, b1.ID, "a")
	t2 := seedTask(t, s, b2.ID, "b")
	t3 := seedTask(t, s, b3.ID, "c")
	seedTask(t, s, b1.ID, "active")

	mustTx(t, s, func(tx *Tx) error {
		if _, err := tx.Tasks().SetArchived(ctx, []int64{t1.ID, t2.ID, t3.ID}, false, true); err != nil {
			return err
		}
		ids, err := tx.Tasks().ArchivedChildIDs(ctx, []int64{b1.ID, b2.ID})
		if err != nil {
			return err
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		if want := []int64{t1.ID, t2.ID}; !reflect.DeepEqual(ids, want) {
			t.Errorf("ids = %v, want %v", ids, want)
		}
		none, err := tx.Tasks().ArchivedChildIDs(ctx, nil)
		if err != nil || len(none) != 0 {
			t.Errorf("empty parents: %v, %v", none, err)
		}
		return nil
	})
}

func TestFindPage_FilterComposition(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	b1 := seedBoard(t, s, "Alpha Project")
	b2 := seedBoard(t, s, "beta")
	for _, n := range []string{"Fix login", "fix logout", "Write 100% tests", "Refactor"} {
		seedTask(t, s, b1.ID, n)
	}
	seedTask(t, s, b2.ID, "Fix build")

	tests := []struct {
		name   string
		filter Filter
		want   int64
	}{
		{"active only", Filter{}, 5},
		{"archived only", Filter{Archived: true}, 0},
		{"name substring ignores case", Filter{NameContains: "FIX"}, 3},
		{"blank name adds no constraint", Filter{NameContains: "   "}, 5},
		{"board scope", Filter{BoardIDs: []int64{b1.ID}}, 4},
		{"board scope and name", Filter{BoardIDs: []int64{b2.ID}, NameContains: "fix"}, 1},
		{"like wildcards are literal", Filter{NameContains: "100%"}, 1},
		{"underscore is literal", Filter{NameContains: "_"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mustTx(t, s, func(tx *Tx) error {
				_, total, err := tx.Tasks().FindPage(ctx, tt.filter, 0, 20)
				if err != nil {
					return err
				}
				if total != tt.want {
					t.Errorf("total = %d, want %d", total, tt.want)
				}
				return nil
			})
		})
	}

	mustTx(t, s, func(tx *Tx) error {
		page, total, err := tx.Tasks().FindPage(ctx, Filter{}, 1, 2)
		if err != nil {
			return err
		}
		if total != 5 || len(page) != 2 {
			t.Errorf("page 1 size 2: len=%d total=%d", len(page), total)
		}
		boards, total, err := tx.Boards().FindPage(ctx, Filter{NameContains: "alpha"}, 0, 10)
		if err != nil {
			return err
		}
		if total != 1 || boards[0].ID != b1.ID {
			t.Errorf("board filter: %+v total=%d", boards, total)
		}
		return nil
	})
}

func TestFilterWhere(t *testing.T) {
	w := Filter{Archived: true, NameContains: " Foo ", BoardIDs: []int64{1, 2}}.where()
	wantSQL := `is_archived = ? AND LOWER(name) LIKE ? ESCAPE '\' AND board_id IN (?, ?)`
	if w.sql != wantSQL {
		t.Errorf("sql = %q, want %q", w.sql, wantSQL)
	}
	wantArgs := []any{true, "%foo%", int64(1), int64(2)}
	if !reflect.DeepEqual(w.args, wantArgs) {
		t.Errorf("args = %v, want %v", w.args, wantArgs)
	}

	bare := Filter{}.where()
	if bare.sql != "is_archived = ?" || len(bare.args) != 1 {
		t.Errorf("bare filter = %+v", bare)
	}
}
