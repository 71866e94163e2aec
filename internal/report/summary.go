package report

import (
	"context"
	"os"

	"shelfsort/internal/catalog"
	"shelfsort/internal/config"
)

// Summary aggregates the run outcome for the closing console table.
type Summary struct {
	Total        int
	Processed    int
	Failed       int
	Duplicates   int
	Inconsistent int
	// AuthorFolders counts the author directories under the processed
	// folder after grouping.
	AuthorFolders int
}

// Summarize computes the run summary from the catalog and the processed
// folder layout.
func Summarize(ctx context.Context, cfg *config.Config, store *catalog.Store) (Summary, error) {
	stats, err := store.Stats(ctx)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		Processed:    stats[catalog.StatusProcessed],
		Failed:       stats[catalog.StatusFailed],
		Duplicates:   stats[catalog.StatusDuplicate],
		Inconsistent: stats[catalog.StatusInconsistent],
	}
	for _, count := range stats {
		summary.Total += count
	}

	dirEntries, err := os.ReadDir(cfg.ProcessedDir())
	if err != nil {
		if os.IsNotExist(err) {
			return summary, nil
		}
		return Summary{}, err
	}
	for _, dirEntry := range dirEntries {
		if dirEntry.IsDir() {
			summary.AuthorFolders++
		}
	}
	return summary, nil
}
