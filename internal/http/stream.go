package httpapp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/alphabot-ai/hnbot/internal/hn"
	"github.com/alphabot-ai/hnbot/internal/metrics"
)

// handleStreamStories godoc
//
//	@Summary		Stream stories
//	@Description	Stream a story list as server-sent events: one `item` event per resolved story in upstream order, then a final `done` event with the count. Stories that fail to resolve are skipped.
//	@Tags			Stories
//	@Produce		text/event-stream
//	@Param			kind	path	string	true	"List kind"	Enums(top, new, best, ask, show, job)
//	@Param			limit	query	int		false	"Max stories"	default(30)
//	@Success		200	{string}	string	"event stream"
//	@Failure		400	{object}	map[string]string	"Unknown list kind"
//	@Router			/api/stories/{kind}/stream [get]
func (s *Server) handleStreamStories(w http.ResponseWriter, r *http.Request, kindStr string) {
	kind, ok := hn.ParseListKind(kindStr)
	if !ok {
		writeError(w, http.StatusBadRequest, errors.New("unknown list kind"))
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, errors.New("streaming unsupported"))
		return
	}
	limit := parseIntDefault(r.URL.Query().Get("limit"), 0)

	ids, err := s.svc.ListIDs(r.Context(), kind, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	metrics.StreamConnections.Inc()
	defer metrics.StreamConnections.Dec()

	// Items resolve one at a time so each event flushes as soon as its
	// story arrives, preserving upstream order.
	sent := 0
	for _, id := range ids {
		if r.Context().Err() != nil {
			return
		}
		item, err := s.svc.Item(r.Context(), id)
		if err != nil || item.Deleted || item.Dead {
			continue
		}
		if err := writeEvent(w, "item", item); err != nil {
			return
		}
		flusher.Flush()
		sent++
	}
	_ = writeEvent(w, "done", map[string]int{"count": sent})
	flusher.Flush()
}

func writeEvent(w http.ResponseWriter, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}
