package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/heartmarshall/lexicon/pkg/ctxutil"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		incoming string
		want     string // empty means a generated UUID is expected
	}{
		{name: "generated when absent"},
		{name: "propagated", incoming: "trace-42", want: "trace-42"},
		{name: "trimmed", incoming: "  trace-43 ", want: "trace-43"},
		{name: "blank replaced", incoming: "   "},
		{name: "oversized replaced", incoming: strings.Repeat("x", maxRequestIDLen+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var inCtx string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				inCtx = ctxutil.RequestIDFromCtx(r.Context())
			})

			req := httptest.NewRequest(http.MethodGet, "/live", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			RequestID()(next).ServeHTTP(rec, req)

			header := rec.Header().Get(RequestIDHeader)
			if header != inCtx {
				t.Errorf("header %q differs from context %q", header, inCtx)
			}
			if tt.want != "" {
				if inCtx != tt.want {
					t.Errorf("request id = %q, want %q", inCtx, tt.want)
				}
				return
			}
			if _, err := uuid.Parse(inCtx); err != nil {
				t.Errorf("request id %q is not a UUID: %v", inCtx, err)
			}
		})
	}
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		remote     string
		forwarded  string
		trustProxy bool
		want       string
	}{
		{"socket address", "198.51.100.4:5555", "", false, "198.51.100.4"},
		{"forwarded ignored without trust", "198.51.100.4:5555", "203.0.113.9", false, "198.51.100.4"},
		{"first forwarded hop", "10.0.0.1:80", "203.0.113.9, 10.0.0.2", true, "203.0.113.9"},
		{"empty forwarded falls back", "10.0.0.1:80", " , 10.0.0.2", true, "10.0.0.1"},
		{"no port", "pipe", "", false, "pipe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = ctxutil.ClientIPFromCtx(r.Context())
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			ClientIP(tt.trustProxy)(next).ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("client ip = %q, want %q", got, tt.want)
			}
		})
	}
}
