package cleanup

import (
	"context"
	"log/slog"

	"github.com/jyothri/mailclean/mailbox"
)

// deleteBatchSize is the Gmail batchDelete cap.
const deleteBatchSize = 1000

// deleteBulk moves messages out via batchDelete, one call per chunk of
// deleteBatchSize. A failed chunk is logged and skipped, not retried.
// Returns the number of messages in chunks that succeeded.
func deleteBulk(ctx context.Context, client mailbox.Client, ids []string) int {
	if len(ids) == 0 {
		return 0
	}
	deleted := 0
	for start := 0; start < len(ids); start += deleteBatchSize {
		end := min(start+deleteBatchSize, len(ids))
		batch := ids[start:end]
		if err := client.BatchDelete(ctx, batch); err != nil {
			slog.Error("Failed to delete batch of messages, skipping",
				"batch_size", len(batch),
				"error", err)
			continue
		}
		deleted += len(batch)
		slog.Info("Deleted batch of messages", "count", len(batch))
	}
	return deleted
}

// deletePermanently erases messages one by one, for the categories that
// must bypass trash entirely. A per-item failure is logged and the item is
// not counted. Returns the number of successful deletions.
func deletePermanently(ctx context.Context, client mailbox.Client, ids []string) int {
	deleted := 0
	for _, id := range ids {
		if err := client.Delete(ctx, id); err != nil {
			slog.Warn("Failed to delete message, skipping",
				"message_id", id,
				"error", err)
			continue
		}
		deleted++
	}
	return deleted
}
