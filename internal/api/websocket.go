package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	werrors "github.com/biblianet/werset/core/errors"
	"github.com/biblianet/werset/core/normalize"
	"github.com/biblianet/werset/internal/logging"
)

// StreamRequest is the client's opening message on the stream socket.
type StreamRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// StreamMessage is one server-to-client frame. Type is "page",
// "complete" or "error".
type StreamMessage struct {
	Type    string          `json:"type"`
	Page    int             `json:"page,omitempty"`
	Hits    []normalize.Hit `json:"hits,omitempty"`
	Total   int             `json:"total,omitempty"`
	Pages   int             `json:"pages,omitempty"`
	Code    string          `json:"code,omitempty"`
	Message string          `json:"message,omitempty"`
}

const (
	streamWriteWait = 10 * time.Second
	streamReadWait  = 30 * time.Second
)

func (s *Server) upgrader() websocket.Upgrader {
	allowed := s.cfg.AllowedOrigins
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowed) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, a := range allowed {
				if origin == a {
					return true
				}
			}
			return false
		},
	}
}

// handleOriginalStream streams original-language search results page by
// page, so large result sets reach the client incrementally instead of
// after the full fan-out.
func (s *Server) handleOriginalStream(w http.ResponseWriter, r *http.Request) {
	up := s.upgrader()
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		logging.WarnContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(streamReadWait))
	var req StreamRequest
	if err := conn.ReadJSON(&req); err != nil {
		writeStream(conn, StreamMessage{Type: "error", Code: "BAD_REQUEST", Message: "expected a JSON request frame"})
		return
	}

	ctx := r.Context()
	page := 1
	total := 0
	for {
		res, err := s.engine.SearchOriginal(ctx, req.Query, page, req.Limit)
		if err != nil {
			if page > 1 && werrors.Is(err, werrors.ErrNoResults) {
				// Provider ran out of pages before the advertised total.
				break
			}
			writeStream(conn, streamError(err))
			return
		}

		total = res.Meta.Total
		if !writeStream(conn, StreamMessage{
			Type:  "page",
			Page:  page,
			Hits:  res.Hits,
			Total: total,
		}) {
			return
		}

		if res.Meta.Limit <= 0 || page*res.Meta.Limit >= total {
			break
		}
		page++
	}

	writeStream(conn, StreamMessage{Type: "complete", Pages: page, Total: total})
}

func streamError(err error) StreamMessage {
	switch {
	case werrors.Is(err, werrors.ErrParse):
		return StreamMessage{Type: "error", Code: "INVALID_QUERY", Message: err.Error()}
	case werrors.Is(err, werrors.ErrNoResults):
		var nre *werrors.NoResultsError
		if werrors.As(err, &nre) {
			logging.NoResults("original/stream", nre.Status, nre.Sample)
		}
		return StreamMessage{Type: "error", Code: "NO_RESULTS", Message: "No results found"}
	default:
		logging.Error("provider failure on stream", "error", err)
		return StreamMessage{Type: "error", Code: "PROVIDER_UNAVAILABLE", Message: "Content provider is unavailable, try again later"}
	}
}

func writeStream(conn *websocket.Conn, msg StreamMessage) bool {
	conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	return conn.WriteJSON(msg) == nil
}
