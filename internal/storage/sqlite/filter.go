package sqlite

import (
	"strings"
)

// Filter selects records for listing. Archived is always applied; an empty
// NameContains or BoardIDs adds no constraint.
type Filter struct {
	Archived     bool
	NameContains string
	BoardIDs     []int64
}

type clause struct {
	sql  string
	args []any
}

func (f Filter) where() clause {
	parts := []string{"is_archived = ?"}
	args := []any{f.Archived}

	if name := strings.ToLower(strings.TrimSpace(f.NameContains)); name != "" {
		parts = append(parts, `LOWER(name) LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(name)+"%")
	}

	if len(f.BoardIDs) > 0 {
		in, ids := inClause(f.BoardIDs)
		parts = append(parts, "board_id IN ("+in+")")
		args = append(args, ids...)
	}

	return clause{sql: strings.Join(parts, " AND "), args: args}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
