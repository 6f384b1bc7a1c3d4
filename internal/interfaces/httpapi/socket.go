package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/sourcegraph/conc"

	"github.com/riskibarqy/matchlens/internal/platform/logging"
	"github.com/riskibarqy/matchlens/internal/usecase"
	"github.com/riskibarqy/matchlens/internal/view"
)

const (
	socketWriteWait      = 10 * time.Second
	socketPongWait       = 60 * time.Second
	socketPingPeriod     = socketPongWait * 9 / 10
	socketMaxMessageSize = 4096
	socketPatchBuffer    = 512
)

const (
	messageSnapshot = "snapshot"
	messagePatch    = "patch"
	messageError    = "error"
)

type socketMessage struct {
	Type     string         `json:"type"`
	Snapshot *view.Snapshot `json:"snapshot,omitempty"`
	Patch    *view.Patch    `json:"patch,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// PageSocket opens one page per connection. The browser receives a snapshot
// followed by every patch, and sends actions back.
func (h *Handler) PageSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(r.Context(), "websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	defer cancel()

	page, err := h.newPage(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "open page failed", "error", err)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "page unavailable"),
			time.Now().Add(socketWriteWait))
		return
	}

	s := &session{
		conn:   conn,
		page:   page,
		sub:    page.Document().Subscribe(socketPatchBuffer),
		outbox: make(chan socketMessage, 16),
		logger: h.logger.With("page_id", page.ID()),
	}
	s.run(ctx, cancel)
}

type session struct {
	conn   *websocket.Conn
	page   *usecase.Page
	sub    *view.Subscription
	outbox chan socketMessage
	logger *logging.Logger
}

func (s *session) run(ctx context.Context, cancel context.CancelFunc) {
	s.logger.InfoContext(ctx, "page session opened")

	var writer conc.WaitGroup
	writer.Go(func() {
		defer s.conn.Close()
		defer cancel()
		if err := s.writeLoop(ctx); err != nil {
			s.logger.DebugContext(ctx, "page session writer stopped", "error", err)
		}
	})

	s.page.Start()
	s.readLoop(ctx)

	cancel()
	writer.Wait()
	s.sub.Close()
	s.page.Close()
	s.logger.InfoContext(ctx, "page session closed")
}

func (s *session) readLoop(ctx context.Context) {
	s.conn.SetReadLimit(socketMaxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(socketPongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(socketPongWait))
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				s.logger.WarnContext(ctx, "page session read failed", "error", err)
			}
			return
		}
		if ctx.Err() != nil {
			return
		}
		s.dispatch(ctx, raw)
	}
}

func (s *session) dispatch(ctx context.Context, raw []byte) {
	ctx, span := startSpan(ctx, "httpapi.session.dispatch")
	defer span.End()

	var action usecase.Action
	if err := sonic.Unmarshal(raw, &action); err != nil {
		s.reply(ctx, socketMessage{Type: messageError, Error: "malformed action"})
		return
	}
	if err := s.page.Dispatch(ctx, action); err != nil {
		s.logger.DebugContext(ctx, "action rejected", "action", action.Type, "error", err)
		s.reply(ctx, socketMessage{Type: messageError, Error: err.Error()})
	}
}

func (s *session) reply(ctx context.Context, msg socketMessage) {
	select {
	case s.outbox <- msg:
	case <-ctx.Done():
	}
}

func (s *session) writeLoop(ctx context.Context) error {
	ticker := time.NewTicker(socketPingPeriod)
	defer ticker.Stop()

	sent, err := s.sendSnapshot()
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(socketWriteWait))
			return nil
		case patch, ok := <-s.sub.C():
			if !ok {
				return errors.New("document subscription closed")
			}
			if s.sub.TakeLagged() {
				if sent, err = s.sendSnapshot(); err != nil {
					return err
				}
				continue
			}
			if patch.Version <= sent {
				continue
			}
			if err := s.write(socketMessage{Type: messagePatch, Patch: &patch}); err != nil {
				return err
			}
			sent = patch.Version
		case msg := <-s.outbox:
			if err := s.write(msg); err != nil {
				return err
			}
		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(socketWriteWait)); err != nil {
				return err
			}
		}
	}
}

// sendSnapshot writes the full document and returns its version. Patches up
// to that version are already part of it.
func (s *session) sendSnapshot() (uint64, error) {
	snapshot := s.page.Document().Snapshot()
	if err := s.write(socketMessage{Type: messageSnapshot, Snapshot: &snapshot}); err != nil {
		return 0, err
	}
	return snapshot.Version, nil
}

func (s *session) write(msg socketMessage) error {
	payload, err := sonic.Marshal(msg)
	if err != nil {
		return err
	}
	if err := s.conn.SetWriteDeadline(time.Now().Add(socketWriteWait)); err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}
