package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/heartmarshall/lexicon/pkg/ctxutil"
)

//go:generate moq -out token_validator_mock_test.go -pkg middleware . tokenValidator

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAuth(t *testing.T) {
	t.Parallel()

	alice := uuid.New()

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantUser   uuid.UUID
		wantCalls  int
	}{
		{name: "anonymous", wantStatus: http.StatusOK},
		{name: "basic scheme is anonymous", header: "Basic dXNlcjpwYXNz", wantStatus: http.StatusOK},
		{name: "empty bearer is anonymous", header: "Bearer ", wantStatus: http.StatusOK},
		{name: "valid token", header: "Bearer alice", wantStatus: http.StatusOK, wantUser: alice, wantCalls: 1},
		{name: "lowercase scheme", header: "bearer alice", wantStatus: http.StatusOK, wantUser: alice, wantCalls: 1},
		{name: "rejected token", header: "Bearer mallory", wantStatus: http.StatusUnauthorized, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			validator := &tokenValidatorMock{
				ValidateTokenFunc: func(_ context.Context, token string) (uuid.UUID, error) {
					if token == "alice" {
						return alice, nil
					}
					return uuid.Nil, errors.New("signature mismatch")
				},
			}

			reached := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
				got, ok := ctxutil.UserIDFromCtx(r.Context())
				if tt.wantUser == uuid.Nil && ok {
					t.Errorf("unexpected user %v on anonymous request", got)
				}
				if tt.wantUser != uuid.Nil && got != tt.wantUser {
					t.Errorf("user = %v, want %v", got, tt.wantUser)
				}
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			Auth(validator, discardLogger())(next).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if calls := len(validator.ValidateTokenCalls()); calls != tt.wantCalls {
				t.Errorf("ValidateToken calls = %d, want %d", calls, tt.wantCalls)
			}
			if tt.wantStatus == http.StatusUnauthorized {
				if reached {
					t.Error("next handler ran for a rejected token")
				}
				if !strings.Contains(rec.Body.String(), `"error":"unauthorized"`) {
					t.Errorf("body = %q", rec.Body.String())
				}
			}
		})
	}
}

func TestAuth_NilValidator(t *testing.T) {
	t.Parallel()

	var anonymous bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := ctxutil.UserIDFromCtx(r.Context())
		anonymous = !ok
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	rec := httptest.NewRecorder()
	Auth(nil, discardLogger())(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || !anonymous {
		t.Errorf("status = %d anonymous = %v, want 200 and anonymous", rec.Code, anonymous)
	}
}

func TestExtractBearerToken(t *testing.T) {
	t.Parallel()

	for header, want := range map[string]string{
		"":               "",
		"Bearer abc":     "abc",
		"BEARER abc":     "abc",
		"Bearer  abc ":   "abc",
		"Bearerabc":      "",
		"Bearer":         "",
		"Token abc":      "",
		"Basic dXNlcjpw": "",
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		if got := extractBearerToken(req); got != want {
			t.Errorf("extractBearerToken(%q) = %q, want %q", header, got, want)
		}
	}
}
