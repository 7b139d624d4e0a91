package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/lexicon/internal/config"
	"github.com/heartmarshall/lexicon/internal/domain"
	"github.com/heartmarshall/lexicon/internal/service/search"
	"github.com/heartmarshall/lexicon/pkg/ctxutil"
)

// SessionHeader names the search session a request belongs to.
const SessionHeader = "X-Search-Session"

const maxSessionKeyLen = 128

// lookupService defines the minimal interface needed by LookupHandler.
type lookupService interface {
	Sources(lang string) []search.SourceView
	Search(ctx context.Context, key, query string, opts search.SearchOptions) search.Result
	Session(key string) search.Result
	Clear(key string) search.Result
	FetchFull(ctx context.Context, sourceID, word, language string) (*domain.FullEntry, error)
}

// LookupHandler serves the dictionary search endpoints.
type LookupHandler struct {
	svc            lookupService
	defaultSources []string
	log            *slog.Logger
}

// NewLookupHandler creates a LookupHandler. defaultSources applies when a
// search names no sources; nil defers to the registry defaults.
func NewLookupHandler(svc lookupService, defaultSources []string, logger *slog.Logger) *LookupHandler {
	return &LookupHandler{
		svc:            svc,
		defaultSources: defaultSources,
		log:            logger.With("handler", "lookup"),
	}
}

// Register mounts the handler's routes on mux.
func (h *LookupHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/sources", h.Sources)
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/search/session", h.Session)
	mux.HandleFunc("DELETE /api/v1/search/session", h.ClearSession)
	mux.HandleFunc("GET /api/v1/entries/{source}/{word}", h.Entry)
}

type sourcesResponse struct {
	Sources []search.SourceView `json:"sources"`
}

// Sources handles GET /api/v1/sources?lang=.
func (h *LookupHandler) Sources(w http.ResponseWriter, r *http.Request) {
	lang, err := languageParam(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, sourcesResponse{Sources: h.svc.Sources(lang)})
}

// Search handles GET /api/v1/search?q=&lang=&sources=&deck=.
func (h *LookupHandler) Search(w http.ResponseWriter, r *http.Request) {
	lang, err := languageParam(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	key, err := sessionKey(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	opts := search.SearchOptions{Language: lang, Enabled: h.defaultSources}
	opts.UserID, _ = ctxutil.UserIDFromCtx(r.Context())

	params := r.URL.Query()
	if params.Has("sources") {
		opts.Enabled = config.ParseList(params.Get("sources"))
		if opts.Enabled == nil {
			opts.Enabled = []string{}
		}
	}
	if raw := strings.TrimSpace(params.Get("deck")); raw != "" {
		deckID, err := uuid.Parse(raw)
		if err != nil {
			handleError(w, r, h.log, domain.NewValidationError("deck", "must be a UUID"))
			return
		}
		opts.DeckID = &deckID
	}

	res := h.svc.Search(r.Context(), key, params.Get("q"), opts)

	if hdr := r.Header.Get(SessionHeader); hdr != "" {
		w.Header().Set(SessionHeader, hdr)
	}
	writeJSON(w, http.StatusOK, res)
}

// Session handles GET /api/v1/search/session.
func (h *LookupHandler) Session(w http.ResponseWriter, r *http.Request) {
	key, err := sessionKey(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Session(key))
}

// ClearSession handles DELETE /api/v1/search/session.
func (h *LookupHandler) ClearSession(w http.ResponseWriter, r *http.Request) {
	key, err := sessionKey(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Clear(key))
}

// Entry handles GET /api/v1/entries/{source}/{word}?lang=.
func (h *LookupHandler) Entry(w http.ResponseWriter, r *http.Request) {
	lang, err := languageParam(r)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}

	entry, err := h.svc.FetchFull(r.Context(), r.PathValue("source"), r.PathValue("word"), lang)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// languageParam reads an optional ISO 639 code. Codes outside the known
// name table are accepted as long as they look like one.
func languageParam(r *http.Request) (string, error) {
	lang := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("lang")))
	if lang == "" || domain.IsLanguageCode(lang) {
		return lang, nil
	}
	if len(lang) < 2 || len(lang) > 3 || strings.IndexFunc(lang, func(c rune) bool { return c < 'a' || c > 'z' }) >= 0 {
		return "", domain.NewValidationError("lang", "must be an ISO 639 code")
	}
	return lang, nil
}

// sessionKey derives the session store key. Client-chosen keys are scoped to
// the authenticated user so one caller cannot read another's session.
// Anonymous requests without the header get "" (no session).
func sessionKey(r *http.Request) (string, error) {
	hdr := strings.TrimSpace(r.Header.Get(SessionHeader))
	if len(hdr) > maxSessionKeyLen {
		return "", domain.NewValidationError("session", "too long")
	}

	userID, authed := ctxutil.UserIDFromCtx(r.Context())
	switch {
	case authed && hdr != "":
		return "u:" + userID.String() + ":s:" + hdr, nil
	case authed:
		return "u:" + userID.String(), nil
	case hdr != "":
		return "s:" + hdr, nil
	default:
		return "", nil
	}
}
