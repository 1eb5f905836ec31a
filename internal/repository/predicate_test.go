package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestCondition_SkipsAbsentValues(t *testing.T) {
	tests := []struct {
		name string
		cond Condition
	}{
		{name: "nil equality", cond: Equal("todos.weather", nil)},
		{name: "nil lower bound", cond: AtOrAfter("todos.updated_at", nil)},
		{name: "nil upper bound", cond: AtOrBefore("todos.updated_at", nil)},
		{name: "nil keyword", cond: Contains("todos.title", nil)},
		{name: "blank keyword", cond: Contains("todos.title", strPtr("  "))},
		{name: "exists over empty condition", cond: Exists("SELECT 1 FROM managers WHERE managers.todo_id = todos.id", Condition{})},
		{name: "and of nothing", cond: And()},
		{name: "and of empties", cond: And(Equal("a", nil), Contains("b", nil))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.cond.IsEmpty())
			assert.Empty(t, tt.cond.Args)
		})
	}
}

func TestCondition_Builders(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("KST", 9*60*60))

	tests := []struct {
		name         string
		cond         Condition
		expectedSQL  string
		expectedArgs []interface{}
	}{
		{
			name:         "equality",
			cond:         Equal("todos.weather", strPtr("Sunny")),
			expectedSQL:  "todos.weather = ?",
			expectedArgs: []interface{}{"Sunny"},
		},
		{
			name:         "inclusive lower bound normalised to UTC",
			cond:         AtOrAfter("todos.updated_at", &ts),
			expectedSQL:  "todos.updated_at >= ?",
			expectedArgs: []interface{}{ts.UTC()},
		},
		{
			name:         "inclusive upper bound",
			cond:         AtOrBefore("todos.updated_at", &ts),
			expectedSQL:  "todos.updated_at <= ?",
			expectedArgs: []interface{}{ts.UTC()},
		},
		{
			name:         "containment escapes wildcards",
			cond:         Contains("todos.title", strPtr("50%_off!")),
			expectedSQL:  "todos.title LIKE ? ESCAPE '!'",
			expectedArgs: []interface{}{"%50!%!_off!!%"},
		},
		{
			name:         "single condition is not parenthesised",
			cond:         And(Equal("a", nil), Equal("b", strPtr("x"))),
			expectedSQL:  "b = ?",
			expectedArgs: []interface{}{"x"},
		},
		{
			name:         "conjunction keeps argument order",
			cond:         And(Equal("a", strPtr("1")), AtOrBefore("c", nil), Equal("b", strPtr("2"))),
			expectedSQL:  "(a = ?) AND (b = ?)",
			expectedArgs: []interface{}{"1", "2"},
		},
		{
			name:         "exists reaches through a join",
			cond:         Exists("SELECT 1 FROM managers m JOIN users u ON u.id = m.user_id WHERE m.todo_id = todos.id", Contains("u.nickname", strPtr("kim"))),
			expectedSQL:  "EXISTS (SELECT 1 FROM managers m JOIN users u ON u.id = m.user_id WHERE m.todo_id = todos.id AND (u.nickname LIKE ? ESCAPE '!'))",
			expectedArgs: []interface{}{"%kim%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, tt.cond.IsEmpty())
			assert.Equal(t, tt.expectedSQL, tt.cond.Query)
			assert.Equal(t, tt.expectedArgs, tt.cond.Args)
		})
	}
}
