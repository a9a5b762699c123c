// Package cleanup implements the Gmail bulk-cleanup engine: resolving
// search queries to message ids, grouping messages by sender for preview,
// and deleting them in provider-sized batches.
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/jyothri/mailclean/mailbox"
)

// Service carries the engine's tunables. The zero value is not usable; use
// NewService. Rate, Sleep and Clock are overridable in tests.
type Service struct {
	Rate  interface{ Wait(context.Context) error }
	Sleep func(time.Duration)
	Clock func() time.Time
}

func NewService() *Service {
	return &Service{
		Rate:  rate.NewLimiter(50, 5),
		Sleep: time.Sleep,
		Clock: time.Now,
	}
}

type StatsResponse struct {
	UnreadCount    int `json:"unreadCount"`
	SpamCount      int `json:"spamCount"`
	TrashCount     int `json:"trashCount"`
	OldEmailsCount int `json:"oldEmailsCount"`
}

type PreviewResponse struct {
	Success     bool    `json:"success"`
	Message     string  `json:"message,omitempty"`
	Groups      []Group `json:"groups"`
	TotalEmails int     `json:"totalEmails"`
}

type CleanupDetails struct {
	UnreadDeleted    int `json:"unreadDeleted"`
	SpamDeleted      int `json:"spamDeleted"`
	TrashDeleted     int `json:"trashDeleted"`
	OldEmailsDeleted int `json:"oldEmailsDeleted"`
}

type CleanupResponse struct {
	Success      bool           `json:"success"`
	TotalDeleted int            `json:"totalDeleted"`
	Message      string         `json:"message"`
	Details      CleanupDetails `json:"details"`
}

// Stats counts the messages matching each of the four fixed categories.
// It never fails: a selector whose resolve errored reports whatever was
// resolved before the error, down to zero.
func (s *Service) Stats(ctx context.Context, client mailbox.Client) StatsResponse {
	now := s.Clock()
	var stats StatsResponse

	ids, _ := resolveIDs(ctx, client, Selector{Category: CategoryUnread}.Query(now))
	stats.UnreadCount = len(ids)

	ids, _ = resolveIDs(ctx, client, Selector{Category: CategorySpam}.Query(now))
	stats.SpamCount = len(ids)

	ids, _ = resolveIDs(ctx, client, Selector{Category: CategoryTrash}.Query(now))
	stats.TrashCount = len(ids)

	ids, _ = resolveIDs(ctx, client, Selector{Category: CategoryOld}.Query(now))
	stats.OldEmailsCount = len(ids)

	return stats
}

// Preview resolves each requested category and groups the matches by
// sender. Unlike Stats, preview is all-or-nothing: any resolve or grouping
// failure downgrades the whole response and discards groups produced so
// far. sessionKey routes progress events to the caller's SSE stream.
func (s *Service) Preview(ctx context.Context, client mailbox.Client, sessionKey string, req CleanupRequest) PreviewResponse {
	resp := PreviewResponse{Success: true, Groups: []Group{}}

	for _, sel := range req.selectors() {
		slog.Info("Getting preview for category", "category", sel.Category)
		ids, err := resolveIDs(ctx, client, sel.Query(s.Clock()))
		if err != nil {
			return PreviewResponse{Success: false, Message: "Error loading preview: " + err.Error()}
		}
		if len(ids) == 0 {
			continue
		}
		groups, err := s.groupBySender(ctx, client, sessionKey, ids, sel.Category)
		if err != nil {
			return PreviewResponse{Success: false, Message: "Error loading preview: " + err.Error()}
		}
		resp.Groups = append(resp.Groups, groups...)
	}

	for _, g := range resp.Groups {
		resp.TotalEmails += g.Count
	}
	return resp
}

// Cleanup deletes everything matching the requested categories. Unread and
// old mail go through batchDelete; spam and trash are erased per message.
// A selector failure marks the response unsuccessful but never undoes
// deletions already issued, and remaining selectors still run.
func (s *Service) Cleanup(ctx context.Context, client mailbox.Client, req CleanupRequest) CleanupResponse {
	resp := CleanupResponse{Success: true}

	for _, sel := range req.selectors() {
		slog.Info("Cleaning category", "category", sel.Category)
		ids, err := resolveIDs(ctx, client, sel.Query(s.Clock()))
		if err != nil {
			resp.Success = false
			if resp.Message == "" {
				resp.Message = "Error cleaning up emails: " + err.Error()
			}
			continue
		}
		switch sel.Category {
		case CategoryUnread:
			resp.Details.UnreadDeleted = deleteBulk(ctx, client, ids)
		case CategorySpam:
			resp.Details.SpamDeleted = deletePermanently(ctx, client, ids)
		case CategoryTrash:
			resp.Details.TrashDeleted = deletePermanently(ctx, client, ids)
		case CategoryOld:
			resp.Details.OldEmailsDeleted = deleteBulk(ctx, client, ids)
		}
	}

	resp.TotalDeleted = resp.Details.UnreadDeleted + resp.Details.SpamDeleted +
		resp.Details.TrashDeleted + resp.Details.OldEmailsDeleted
	if resp.Success {
		resp.Message = fmt.Sprintf("Successfully deleted %d emails", resp.TotalDeleted)
	}
	return resp
}
