package source

import (
	"log/slog"

	gameplaytags "github.com/mkislenko/com.radiodecadance.gameplaytags"
)

// canonical canonicalizes raw entries, logging and dropping the invalid ones.
func canonical(raw []string, logger *slog.Logger, origin string) []string {
	paths, errs := gameplaytags.CanonicalizeAll(raw)
	if len(errs) > 0 {
		if logger == nil {
			logger = slog.Default()
		}
		for _, err := range errs {
			logger.Warn("skipping invalid tag path",
				"source", origin,
				"error", err)
		}
	}
	return paths
}
