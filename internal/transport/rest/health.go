package rest

import (
	"context"
	"net/http"
	"time"
)

const pingTimeout = 3 * time.Second

const (
	statusOK       = "ok"
	statusDown     = "down"
	statusDisabled = "disabled"
	statusEmpty    = "empty"
)

type dbPinger interface {
	Ping(ctx context.Context) error
}

type sourceLister interface {
	SourceCount() int
}

// HealthHandler serves the probe endpoints.
type HealthHandler struct {
	db      dbPinger
	sources sourceLister
	version string
}

// NewHealthHandler creates a HealthHandler. A nil db is reported as
// "disabled" and never fails a probe.
func NewHealthHandler(db dbPinger, sources sourceLister, version string) *HealthHandler {
	return &HealthHandler{db: db, sources: sources, version: version}
}

// HealthResponse is the body of every probe.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is one component of a /health report.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
}

// Live answers 200 as long as the process serves HTTP.
func (h *HealthHandler) Live(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: statusOK, Timestamp: time.Now()})
}

// Ready fails with 503 only when a configured database is unreachable.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	db := h.checkDatabase(r.Context())
	h.reply(w, db.Status != statusDown, HealthResponse{})
}

// Health reports the database and the source registry along with the
// build version.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	db := h.checkDatabase(r.Context())
	components := map[string]CompStatus{"database": db}
	if h.sources != nil {
		reg := CompStatus{Status: statusOK}
		if h.sources.SourceCount() == 0 {
			reg.Status = statusEmpty
		}
		components["sources"] = reg
	}

	h.reply(w, db.Status != statusDown, HealthResponse{Version: h.version, Components: components})
}

func (h *HealthHandler) checkDatabase(ctx context.Context) CompStatus {
	if h.db == nil {
		return CompStatus{Status: statusDisabled}
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	start := time.Now()
	if err := h.db.Ping(ctx); err != nil {
		return CompStatus{Status: statusDown}
	}
	return CompStatus{Status: statusOK, Latency: time.Since(start).String()}
}

func (h *HealthHandler) reply(w http.ResponseWriter, healthy bool, resp HealthResponse) {
	code := http.StatusOK
	resp.Status = statusOK
	if !healthy {
		code = http.StatusServiceUnavailable
		resp.Status = statusDown
	}
	resp.Timestamp = time.Now()
	writeJSON(w, code, resp)
}
