// Package mailbox defines the narrow Gmail surface the cleanup engine needs.
package mailbox

import "context"

// Client is the provider capability required per authenticated account.
// All calls are request/response and safe for concurrent use.
type Client interface {
	// ListIDs returns one page of message ids matching query, plus the
	// continuation token for the next page ("" when exhausted).
	ListIDs(ctx context.Context, query string, pageSize int64, pageToken string) ([]string, string, error)
	// GetHeaders fetches only the named metadata headers of one message.
	GetHeaders(ctx context.Context, id string, headers ...string) (map[string]string, error)
	// Delete permanently deletes a single message.
	Delete(ctx context.Context, id string) error
	// BatchDelete deletes up to 1000 messages in one call.
	BatchDelete(ctx context.Context, ids []string) error
}
