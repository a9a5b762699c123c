package mailbox

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"google.golang.org/api/googleapi"
)

func TestIsRateLimited(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("connection reset"), false},
		{"too-many-requests", &googleapi.Error{Code: http.StatusTooManyRequests}, true},
		{"server-error", &googleapi.Error{Code: http.StatusInternalServerError}, false},
		{"wrapped", fmt.Errorf("fetch: %w", &googleapi.Error{Code: http.StatusTooManyRequests}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRateLimited(tt.err); got != tt.want {
				t.Fatalf("IsRateLimited(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
