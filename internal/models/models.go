package models

import "time"

// Board is a container of tasks. Its tasks are removed together with it.
type Board struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Archived    bool      `json:"archived"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// RecordID returns the surrogate identifier assigned by the store.
func (b Board) RecordID() int64 { return b.ID }

// SameAs reports whether both boards denote the same stored record.
// Boards without an assigned id are never the same record.
func (b Board) SameAs(other Board) bool {
	return b.ID != 0 && b.ID == other.ID
}

// BoardDetail is a board together with the tasks it currently owns.
type BoardDetail struct {
	Board
	Tasks []Task `json:"tasks"`
}

// Task is a single card owned by exactly one board.
type Task struct {
	ID          int64      `json:"id"`
	BoardID     int64      `json:"boardId"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	Icon        TaskIcon   `json:"icon"`
	Archived    bool       `json:"archived"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// RecordID returns the surrogate identifier assigned by the store.
func (t Task) RecordID() int64 { return t.ID }

// SameAs reports whether both tasks denote the same stored record.
func (t Task) SameAs(other Task) bool {
	return t.ID != 0 && t.ID == other.ID
}

// StateName renders an archived flag the way error messages spell it.
func StateName(archived bool) string {
	if archived {
		return "archived"
	}
	return "active"
}

// Page is one slice of a sorted listing.
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// NewPage wraps content with the paging metadata derived from total.
func NewPage[T any](content []T, page, size int, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	pages := 0
	if size > 0 {
		pages = int((total + int64(size) - 1) / int64(size))
	}
	return Page[T]{
		Content:       content,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    pages,
	}
}
