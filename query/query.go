package query

import (
	"fmt"

	"github.com/google/cel-go/cel"
	gameplaytags "github.com/mkislenko/com.radiodecadance.gameplaytags"
)

// Query is a compiled tag expression. It is safe for concurrent use.
type Query struct {
	expr    string
	program cel.Program
}

// Matches evaluates the query with tags bound to set. A nil set is empty.
//
// Only the IDs of set are read. Hierarchy checks inside the expression use
// the engine's registry, not the registry set was created with; compile
// with an engine over the set's registry to query against it.
func (q *Query) Matches(set *gameplaytags.Set) (bool, error) {
	ids := make([]uint64, 0, set.Len())
	if set != nil {
		for _, id := range set.IDs() {
			ids = append(ids, uint64(id.Raw()))
		}
	}

	out, _, err := q.program.Eval(map[string]any{tagsVar: ids})
	if err != nil {
		return false, invalidQuery("Query.Matches", q.expr, err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, invalidQuery("Query.Matches", q.expr, fmt.Errorf("result is %T, want bool", out.Value()))
	}
	return result, nil
}

// String returns the source expression.
func (q *Query) String() string {
	return q.expr
}
