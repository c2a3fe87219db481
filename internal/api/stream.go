// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/katalvlaran/ctmc/kolmogorov"
	"github.com/katalvlaran/ctmc/transition"
)

const (
	writeWait = 10 * time.Second
	readWait  = 30 * time.Second
)

// Stream message types, in the order a successful stream sends them:
// one meta, one batch per chart, one done. A failure sends a single error.
const (
	MessageMeta  = "meta"
	MessageBatch = "batch"
	MessageDone  = "done"
	MessageError = "error"
)

// StreamMessage is one frame of /api/v1/stream.
type StreamMessage struct {
	Type string `json:"type"`

	RunID      string                `json:"run_id,omitempty"`
	States     int                   `json:"states,omitempty"`
	RepairMode string                `json:"repair_mode,omitempty"`
	Times      []float64             `json:"times,omitempty"`
	Graph      *transition.GraphView `json:"graph,omitempty"`

	Batch   *kolmogorov.Batch `json:"batch,omitempty"`
	Batches int               `json:"batches,omitempty"`

	Elapsed time.Duration `json:"elapsed_ns,omitempty"`
	Error   *APIError     `json:"error,omitempty"`
}

// stream upgrades the connection, reads one SolveRequest and writes the
// result as a sequence of frames, then closes.
func (s *Server) stream(c echo.Context) error {
	ws, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already replied
		return nil
	}
	defer ws.Close()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	_ = ws.SetReadDeadline(time.Now().Add(readWait))
	var req SolveRequest
	if err := ws.ReadJSON(&req); err != nil {
		return s.streamFail(ws, BadRequestError("Invalid request message", err.Error()))
	}
	if err := c.Validate(&req); err != nil {
		var ae *APIError
		if errors.As(err, &ae) {
			return s.streamFail(ws, ae)
		}
		return s.streamFail(ws, BadRequestError("Invalid request message", err.Error()))
	}

	// a client that goes away cancels the solve
	go func() {
		_ = ws.SetReadDeadline(time.Time{})
		for {
			if _, _, err := ws.NextReader(); err != nil {
				cancel()
				return
			}
		}
	}()

	res, err := s.runSolve(ctx, req.toEngine())
	if err != nil {
		return s.streamFail(ws, FromEngine(err))
	}

	frames := make([]StreamMessage, 0, len(res.Batches)+2)
	frames = append(frames, StreamMessage{
		Type:       MessageMeta,
		RunID:      res.RunID,
		States:     res.States,
		RepairMode: res.RepairMode.String(),
		Times:      res.Trajectory.Times,
		Graph:      res.Graph,
		Batches:    len(res.Batches),
	})
	for i := range res.Batches {
		frames = append(frames, StreamMessage{Type: MessageBatch, RunID: res.RunID, Batch: &res.Batches[i]})
	}
	frames = append(frames, StreamMessage{Type: MessageDone, RunID: res.RunID, Elapsed: res.Elapsed})

	for _, f := range frames {
		if err := ctx.Err(); err != nil {
			s.logger.Debug("stream client gone", "run_id", res.RunID)
			return nil
		}
		if err := s.writeFrame(ws, f); err != nil {
			s.logger.Debug("stream write failed", "run_id", res.RunID, "error", err)
			return nil
		}
	}
	s.closeStream(ws, websocket.CloseNormalClosure, "")

	return nil
}

func (s *Server) writeFrame(ws *websocket.Conn, m StreamMessage) error {
	_ = ws.SetWriteDeadline(time.Now().Add(writeWait))

	return ws.WriteJSON(m)
}

func (s *Server) streamFail(ws *websocket.Conn, ae *APIError) error {
	if err := s.writeFrame(ws, StreamMessage{Type: MessageError, Error: ae}); err == nil {
		s.closeStream(ws, websocket.ClosePolicyViolation, ae.Message)
	}

	return nil
}

func (s *Server) closeStream(ws *websocket.Conn, code int, text string) {
	msg := websocket.FormatCloseMessage(code, text)
	_ = ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}

// checkOrigin applies the CORS origin list to WebSocket upgrades.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range s.config.Security.AllowedOrigins {
		if o == "*" || o == origin {
			return true
		}
	}

	return false
}
