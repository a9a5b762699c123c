package cleanup

import (
	"context"
	"log/slog"

	"github.com/jyothri/mailclean/mailbox"
)

const listPageSize = 500

// resolveIDs walks every result page for query and accumulates message ids
// in arrival order. On a page failure it stops and returns whatever it has
// so far along with the error; callers decide whether a partial result is
// acceptable.
func resolveIDs(ctx context.Context, client mailbox.Client, query string) ([]string, error) {
	var ids []string
	pageToken := ""
	for {
		pageIds, next, err := client.ListIDs(ctx, query, listPageSize, pageToken)
		if err != nil {
			slog.Error("Failed to list messages, returning partial result",
				"query", query,
				"resolved", len(ids),
				"error", err)
			return ids, err
		}
		ids = append(ids, pageIds...)
		if next == "" {
			return ids, nil
		}
		pageToken = next
	}
}
