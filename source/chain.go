package source

import (
	"context"
	"fmt"

	gameplaytags "github.com/mkislenko/com.radiodecadance.gameplaytags"
)

// Chain concatenates several sources in order. A path listed by more than
// one source keeps its first position. Any failing source fails the chain.
type Chain []gameplaytags.Source

// Paths reads every source in order.
func (c Chain) Paths(ctx context.Context) ([]string, error) {
	var all []string
	for i, src := range c {
		paths, err := src.Paths(ctx)
		if err != nil {
			return nil, fmt.Errorf("source %d: %w", i, err)
		}
		all = append(all, paths...)
	}
	return canonical(all, nil, "chain"), nil
}
