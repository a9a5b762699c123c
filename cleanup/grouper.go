package cleanup

import (
	"context"
	"log/slog"
	"regexp"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jyothri/mailclean/mailbox"
	"github.com/jyothri/mailclean/notification"
)

const (
	// groupChunkSize bounds how many metadata fetches are in flight at once.
	groupChunkSize  = 50
	groupMaxRetries = 3
	groupRetryDelay = 1000 * time.Millisecond
	groupChunkPause = 500 * time.Millisecond
)

// Group is a cluster of messages sharing a normalized sender address.
type Group struct {
	GroupName   string   `json:"groupName"`
	GroupType   string   `json:"groupType"`
	Category    Category `json:"category"`
	Count       int      `json:"count"`
	MessageIds  []string `json:"messageIds"`
	Description string   `json:"description"`
	Selected    bool     `json:"selected"`
}

type senderResult struct {
	id     string
	sender string // raw From header of the message
	email  string // normalized group key
	ok     bool
}

var addrPattern = regexp.MustCompile(`<(.+?)>`)

// extractEmail pulls the angle-bracketed address out of a raw From header.
// Headers without one group under the full raw string.
func extractEmail(fromHeader string) string {
	if m := addrPattern.FindStringSubmatch(fromHeader); m != nil {
		return m[1]
	}
	return fromHeader
}

// groupBySender fetches the From header for every id and folds the results
// into sender groups, sorted by member count descending. Fetches run
// concurrently within a chunk; chunks are sequential with a pause between
// them to keep the sustained request rate down. A message whose fetch fails
// is dropped from grouping, never fatal to the run.
func (s *Service) groupBySender(ctx context.Context, client mailbox.Client, sessionKey string, ids []string, category Category) ([]Group, error) {
	if len(ids) == 0 {
		return []Group{}, nil
	}

	slog.Info("Grouping messages by sender", "count", len(ids), "category", category)
	start := s.Clock()
	groups := make(map[string]*Group)
	var order []string

	for chunkStart := 0; chunkStart < len(ids); chunkStart += groupChunkSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		chunkEnd := min(chunkStart+groupChunkSize, len(ids))
		chunk := ids[chunkStart:chunkEnd]

		// Fan out one fetch per chunk member, join, then fold the results
		// into the group table on this goroutine only.
		results := make([]senderResult, len(chunk))
		g, gctx := errgroup.WithContext(ctx)
		for i, id := range chunk {
			g.Go(func() error {
				res, err := s.fetchSender(gctx, client, id)
				if err != nil {
					slog.Warn("Dropping message from grouping",
						"message_id", id,
						"error", err)
					return nil
				}
				results[i] = res
				results[i].ok = true
				return nil
			})
		}
		_ = g.Wait()

		for i := range results {
			r := results[i]
			if !r.ok {
				continue
			}
			grp, ok := groups[r.email]
			if !ok {
				grp = &Group{
					GroupName:   r.sender,
					GroupType:   "sender",
					Category:    category,
					Description: "Emails from " + r.email,
					Selected:    true,
				}
				groups[r.email] = grp
				order = append(order, r.email)
			}
			grp.MessageIds = append(grp.MessageIds, r.id)
			grp.Count++
		}

		notification.Publish(sessionKey, notification.Progress{
			SessionId:    sessionKey,
			Category:     string(category),
			Processed:    chunkEnd,
			Pending:      len(ids) - chunkEnd,
			Total:        len(ids),
			ElapsedInSec: int(s.Clock().Sub(start).Seconds()),
		})

		if chunkEnd < len(ids) {
			s.Sleep(groupChunkPause)
		}
	}

	out := make([]Group, 0, len(groups))
	for _, key := range order {
		out = append(out, *groups[key])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })

	slog.Info("Finished grouping", "messages", len(ids), "groups", len(out), "category", category)
	return out, nil
}

// fetchSender gets the From header of one message. Rate-limit failures are
// retried up to groupMaxRetries times with exponential backoff (1s, 2s,
// 4s); any other failure is returned immediately.
func (s *Service) fetchSender(ctx context.Context, client mailbox.Client, id string) (senderResult, error) {
	for attempt := 0; ; attempt++ {
		if err := s.Rate.Wait(ctx); err != nil {
			return senderResult{}, err
		}
		headers, err := client.GetHeaders(ctx, id, "From")
		if err == nil {
			sender := headers["From"]
			if sender == "" {
				sender = "Unknown Sender"
			}
			return senderResult{id: id, sender: sender, email: extractEmail(sender)}, nil
		}
		if !mailbox.IsRateLimited(err) || attempt == groupMaxRetries {
			return senderResult{}, err
		}
		delay := groupRetryDelay * time.Duration(1<<attempt)
		slog.Warn("Rate limit hit, backing off",
			"message_id", id,
			"delay", delay,
			"attempt", attempt+1,
			"max_retries", groupMaxRetries)
		s.Sleep(delay)
	}
}
