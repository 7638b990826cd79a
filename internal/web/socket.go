package web

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"reflect"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/jaminalder/tictactoe-ai/internal/app"
	"github.com/jaminalder/tictactoe-ai/internal/domain"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

// wsMessage is the envelope for both directions on /game/{id}/ws.
type wsMessage struct {
	Type     string      `json:"type"`
	Contents interface{} `json:"contents,omitempty"`
}

type playRequest struct {
	Cell *int `mapstructure:"cell"`
}

type tierRequest struct {
	Tier string `mapstructure:"tier"`
}

type boardPayload struct {
	HTML string `json:"html"`
}

type errorPayload struct {
	Reason string `json:"reason"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// wholeNumbers rejects JSON numbers with a fraction when the target is an int.
func wholeNumbers(from, to reflect.Kind, data interface{}) (interface{}, error) {
	if from == reflect.Float64 && to == reflect.Int {
		if f := data.(float64); f != math.Trunc(f) {
			return nil, fmt.Errorf("%v is not a whole number", f)
		}
	}
	return data, nil
}

// decodeContents decodes message contents strictly: unknown keys, wrong types
// and fractional integers are errors.
func decodeContents(in interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.DecodeHookFuncKind(wholeNumbers),
		ErrorUnused: true,
		Result:      out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

func boardMessage(html []byte) []byte {
	return mustMarshal(wsMessage{Type: "board", Contents: boardPayload{HTML: string(html)}})
}

func errorMessageWS(reason string) []byte {
	return mustMarshal(wsMessage{Type: "error", Contents: errorPayload{Reason: reason}})
}

// socket streams board updates for a game and accepts moves from the seated
// player. Visitors without a player cookie only watch.
func (h *handlers) socket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	gs, ok := h.svc.Get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	var pid string
	if c, err := r.Cookie(playerCookie); err == nil && app.IsValidPlayerID(c.Value) {
		pid = c.Value
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade", zap.String("game", id), zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	updates, unsub, err := h.svc.Subscribe(ctx, id)
	if err != nil {
		return
	}
	defer unsub()

	replies := make(chan []byte, 4)
	go func() {
		defer cancel()
		for {
			var msg wsMessage
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.log.Debug("websocket read", zap.String("game", id), zap.Error(err))
				}
				return
			}
			if reply := h.handleSocketMessage(ctx, id, pid, msg); reply != nil {
				select {
				case replies <- reply:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	first := boardMessage(h.renderBoard(*gs, ""))
	if err := conn.WriteMessage(websocket.TextMessage, first); err != nil {
		return
	}
	if err := h.writeSocket(ctx, conn, updates, replies); err != nil {
		h.log.Debug("websocket write", zap.String("game", id), zap.Error(err))
	}
}

// handleSocketMessage applies one client message. Successful actions reach
// the client through the subscription; only failures get a direct reply.
func (h *handlers) handleSocketMessage(ctx context.Context, id, pid string, msg wsMessage) []byte {
	var err error
	switch msg.Type {
	case "play":
		var req playRequest
		if err = decodeContents(msg.Contents, &req); err != nil || req.Cell == nil {
			return errorMessageWS("Unable to decode play request")
		}
		_, err = h.svc.Play(ctx, id, pid, *req.Cell)
	case "reset":
		_, err = h.svc.Reset(id, pid)
	case "difficulty":
		var req tierRequest
		if err = decodeContents(msg.Contents, &req); err != nil {
			return errorMessageWS("Unable to decode difficulty request")
		}
		var tier domain.Tier
		if tier, err = domain.ParseTier(req.Tier); err == nil {
			_, err = h.svc.SetTier(id, pid, tier)
		}
	default:
		return errorMessageWS("Unknown message type")
	}
	if err != nil {
		return errorMessageWS(errorMessage(err))
	}
	return nil
}

// writeSocket is the only writer on conn. It forwards board updates and
// replies, and pings when the connection has been idle for a heartbeat.
func (h *handlers) writeSocket(ctx context.Context, conn *websocket.Conn, updates <-chan []byte, replies <-chan []byte) error {
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	lastWrite := time.Now()
	ping := mustMarshal(wsMessage{Type: "ping"})

	write := func(b []byte) error {
		lastWrite = time.Now()
		return conn.WriteMessage(websocket.TextMessage, b)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case b, ok := <-updates:
			if !ok {
				return nil
			}
			if err := write(boardMessage(b)); err != nil {
				return err
			}
		case b := <-replies:
			if err := write(b); err != nil {
				return err
			}
		case <-ticker.C:
			if time.Since(lastWrite) < h.heartbeat {
				continue
			}
			if err := write(ping); err != nil {
				return err
			}
		}
	}
}
