package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/njchilds90/gonewton"
)

const (
	wsReadTimeout  = 60 * time.Second
	wsWriteTimeout = 10 * time.Second
)

// streamMessage is one frame sent to a /ws client: an "iteration" frame per
// trace record, then a single "result" frame.
type streamMessage struct {
	Type   string                    `json:"type"`
	Record *gonewton.IterationRecord `json:"record,omitempty"`
	Result *gonewton.Result          `json:"result,omitempty"`
}

// handleWebSocket serves GET /ws. Each text message from the client is a
// request; the connection stays open for further requests.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxBodyBytes)
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	})

	for {
		_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read failed", "error", err)
			}
			return
		}
		if err := s.stream(r.Context(), conn, data); err != nil {
			s.logger.Warn("websocket write failed", "error", err)
			return
		}
	}
}

// stream solves one request, sending each record as it is produced.
func (s *Server) stream(ctx context.Context, conn *websocket.Conn, data []byte) error {
	start := time.Now()

	var req gonewton.Request
	if err := json.Unmarshal(data, &req); err != nil {
		var ie *gonewton.InputError
		if !errors.As(err, &ie) {
			ie = &gonewton.InputError{Field: "message", Msg: err.Error()}
		}
		res := gonewton.ResultFromError(ie)
		s.observe("ws", start, res)
		return send(conn, streamMessage{Type: "result", Result: &res})
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var writeErr error
	observer := func(rec gonewton.IterationRecord) {
		if writeErr != nil {
			return
		}
		if err := send(conn, streamMessage{Type: "iteration", Record: &rec}); err != nil {
			writeErr = err
			cancel()
		}
	}

	res := gonewton.Solve(ctx, req, append(s.options(), gonewton.WithObserver(observer))...)
	if writeErr != nil {
		return writeErr
	}
	s.observe("ws", start, res)
	return send(conn, streamMessage{Type: "result", Result: &res})
}

func send(conn *websocket.Conn, msg streamMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteJSON(msg)
}
