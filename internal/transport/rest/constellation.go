package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/heartmarshall/lexicon/internal/domain"
	"github.com/heartmarshall/lexicon/internal/service/constellation"
	"github.com/heartmarshall/lexicon/internal/service/search"
	"github.com/heartmarshall/lexicon/pkg/ctxutil"
)

const maxMergeBody = 1 << 20

type mergeSearcher interface {
	Search(ctx context.Context, key, query string, opts search.SearchOptions) search.Result
}

// ConstellationHandler folds search results into a caller's vocabulary.
type ConstellationHandler struct {
	searcher   mergeSearcher
	classifier constellation.Classifier
	log        *slog.Logger
}

// NewConstellationHandler creates a ConstellationHandler.
func NewConstellationHandler(searcher mergeSearcher, classifier constellation.Classifier, logger *slog.Logger) *ConstellationHandler {
	return &ConstellationHandler{
		searcher:   searcher,
		classifier: classifier,
		log:        logger.With("handler", "constellation"),
	}
}

// Register mounts the handler's routes on mux.
func (h *ConstellationHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/constellation/merge", h.Merge)
}

// mergeRequest carries either explicit results or a query to run first.
type mergeRequest struct {
	Items    []constellation.VocabularyItem `json:"items"`
	Results  []search.RankedResult          `json:"results"`
	Query    string                         `json:"query"`
	Language string                         `json:"lang"`
}

// Merge handles POST /api/v1/constellation/merge.
func (h *ConstellationHandler) Merge(w http.ResponseWriter, r *http.Request) {
	var req mergeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMergeBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	for i, it := range req.Items {
		if it.ID == "" {
			handleError(w, r, h.log, domain.NewValidationError("items", "item "+strconv.Itoa(i)+" has no id"))
			return
		}
	}

	results := req.Results
	if len(results) == 0 && strings.TrimSpace(req.Query) != "" {
		userID, _ := ctxutil.UserIDFromCtx(r.Context())
		res := h.searcher.Search(r.Context(), "", req.Query, search.SearchOptions{
			Language: req.Language,
			UserID:   userID,
		})
		results = res.Ranked
	}

	writeJSON(w, http.StatusOK, constellation.Merge(req.Items, results, h.classifier))
}
