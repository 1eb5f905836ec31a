package repository

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// likeEscape is the LIKE escape character. It is not a backslash, because
// MySQL and SQLite disagree on backslashes inside string literals.
const likeEscape = "!"

// Condition is an optional SQL predicate with its bind arguments.
// The zero value is empty and constrains nothing.
type Condition struct {
	Query string
	Args  []interface{}
}

// IsEmpty reports whether the condition adds no constraint.
func (c Condition) IsEmpty() bool {
	return strings.TrimSpace(c.Query) == ""
}

// Apply adds the condition to db as a WHERE clause, or returns db unchanged
// when the condition is empty.
func (c Condition) Apply(db *gorm.DB) *gorm.DB {
	if c.IsEmpty() {
		return db
	}
	return db.Where(c.Query, c.Args...)
}

// And joins the non-empty conditions with AND and skips the empty ones.
func And(conds ...Condition) Condition {
	var set []Condition
	for _, c := range conds {
		if !c.IsEmpty() {
			set = append(set, c)
		}
	}
	switch len(set) {
	case 0:
		return Condition{}
	case 1:
		return set[0]
	}

	parts := make([]string, 0, len(set))
	var args []interface{}
	for _, c := range set {
		parts = append(parts, "("+c.Query+")")
		args = append(args, c.Args...)
	}
	return Condition{Query: strings.Join(parts, " AND "), Args: args}
}

// Equal matches column = value when value is set.
func Equal(column string, value *string) Condition {
	if value == nil {
		return Condition{}
	}
	return Condition{Query: column + " = ?", Args: []interface{}{*value}}
}

// AtOrAfter matches column >= t when t is set.
func AtOrAfter(column string, t *time.Time) Condition {
	if t == nil {
		return Condition{}
	}
	return Condition{Query: column + " >= ?", Args: []interface{}{t.UTC()}}
}

// AtOrBefore matches column <= t when t is set. The bound is inclusive.
func AtOrBefore(column string, t *time.Time) Condition {
	if t == nil {
		return Condition{}
	}
	return Condition{Query: column + " <= ?", Args: []interface{}{t.UTC()}}
}

// Contains matches rows whose column contains keyword as a substring.
// A nil or blank keyword is treated as absent.
func Contains(column string, keyword *string) Condition {
	if keyword == nil || strings.TrimSpace(*keyword) == "" {
		return Condition{}
	}
	return Condition{
		Query: column + " LIKE ? ESCAPE '" + likeEscape + "'",
		Args:  []interface{}{"%" + escapeLike(*keyword) + "%"},
	}
}

// Exists wraps cond in a correlated EXISTS subquery. The subquery must end
// in a WHERE clause that cond can extend with AND.
// Example: Exists("SELECT 1 FROM managers m JOIN users u ON u.id = m.user_id WHERE m.todo_id = todos.id", cond).
func Exists(subquery string, cond Condition) Condition {
	if cond.IsEmpty() {
		return Condition{}
	}
	return Condition{
		Query: "EXISTS (" + subquery + " AND (" + cond.Query + "))",
		Args:  cond.Args,
	}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(
		likeEscape, likeEscape+likeEscape,
		"%", likeEscape+"%",
		"_", likeEscape+"_",
	)
	return r.Replace(s)
}
