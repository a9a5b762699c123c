package mailbox

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

type googleClient struct {
	svc *gmail.Service
}

// NewGoogleClient builds a Client backed by the Gmail API for the account
// behind the given token source.
func NewGoogleClient(ctx context.Context, tokenSource oauth2.TokenSource) (Client, error) {
	svc, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}
	return &googleClient{svc: svc}, nil
}

func (g *googleClient) ListIDs(ctx context.Context, query string, pageSize int64, pageToken string) ([]string, string, error) {
	call := g.svc.Users.Messages.List("me").Q(query).MaxResults(pageSize)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	res, err := call.Context(ctx).Do()
	if err != nil {
		return nil, "", err
	}
	ids := make([]string, 0, len(res.Messages))
	for _, m := range res.Messages {
		ids = append(ids, m.Id)
	}
	return ids, res.NextPageToken, nil
}

func (g *googleClient) GetHeaders(ctx context.Context, id string, headers ...string) (map[string]string, error) {
	msg, err := g.svc.Users.Messages.Get("me", id).Format("metadata").MetadataHeaders(headers...).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(headers))
	if msg.Payload != nil {
		for _, h := range msg.Payload.Headers {
			out[h.Name] = h.Value
		}
	}
	return out, nil
}

func (g *googleClient) Delete(ctx context.Context, id string) error {
	return g.svc.Users.Messages.Delete("me", id).Context(ctx).Do()
}

func (g *googleClient) BatchDelete(ctx context.Context, ids []string) error {
	req := &gmail.BatchDeleteMessagesRequest{Ids: ids}
	return g.svc.Users.Messages.BatchDelete("me", req).Context(ctx).Do()
}

// IsRateLimited reports whether err is the provider's back-off signal.
// Every other provider failure is treated as plain unavailability.
func IsRateLimited(err error) bool {
	var googleErr *googleapi.Error
	if errors.As(err, &googleErr) {
		return googleErr.Code == http.StatusTooManyRequests
	}
	return false
}
