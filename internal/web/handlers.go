package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jaminalder/tictactoe-ai/internal/ai"
	"github.com/jaminalder/tictactoe-ai/internal/app"
	"github.com/jaminalder/tictactoe-ai/internal/domain"
	"go.uber.org/zap"
)

type handlers struct {
	svc         *app.Service
	tpl         *templates
	log         *zap.Logger
	defaultTier domain.Tier
	heartbeat   time.Duration
}

func (h *handlers) renderBoard(gs app.GameState, errMsg string) []byte {
	return renderTemplate(h.tpl.board, "", newBoardView(gs, errMsg))
}

func writeHTML(w http.ResponseWriter, status int, b []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	data := struct {
		Tiers   []domain.Tier
		Default domain.Tier
	}{Tiers: domain.Tiers, Default: h.defaultTier}
	writeHTML(w, http.StatusOK, renderTemplate(h.tpl.index, "base", data))
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	tier := h.defaultTier
	if v := r.FormValue("tier"); v != "" {
		t, err := domain.ParseTier(v)
		if err != nil {
			http.Error(w, "unknown difficulty", http.StatusBadRequest)
			return
		}
		tier = t
	}
	gs, err := h.svc.CreateGame(tier)
	if err != nil {
		http.Error(w, "failed to create", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	// ensure cookie and auto-claim seat
	pid := ensurePlayerCookie(w, r)
	_, gs, err := h.svc.Join(id, pid)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	writeHTML(w, http.StatusOK, renderTemplate(h.tpl.game, "base", newBoardView(*gs, "")))
}

func (h *handlers) join(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pid := ensurePlayerCookie(w, r)
	side, gs, err := h.svc.Join(id, pid)
	if err != nil || gs == nil {
		http.NotFound(w, r)
		return
	}
	var msg string
	if side == domain.Empty {
		msg = "You are a spectator"
	}
	writeHTML(w, http.StatusOK, h.renderBoard(*gs, msg))
}

// cellFromForm reads either a cell index or a row/column pair.
func cellFromForm(r *http.Request) (int, error) {
	_ = r.ParseForm()
	if v := r.Form.Get("cell"); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return 0, domain.ErrInvalidIndex
		}
		return i, nil
	}
	ri, err1 := strconv.Atoi(r.Form.Get("r"))
	ci, err2 := strconv.Atoi(r.Form.Get("c"))
	if err1 != nil || err2 != nil {
		return 0, domain.ErrInvalidIndex
	}
	return domain.Index(ri, ci)
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, app.ErrNotYourTurn):
		return "Not your turn"
	case errors.Is(err, app.ErrNotAPlayer):
		return "You are a spectator"
	case errors.Is(err, domain.ErrOccupied):
		return "Cell is occupied"
	case errors.Is(err, domain.ErrInvalidIndex):
		return "Out of bounds"
	case errors.Is(err, domain.ErrGameOver):
		return "Game is over"
	case errors.Is(err, domain.ErrUnknownTier):
		return "Unknown difficulty"
	case errors.Is(err, ai.ErrNoLegalMove):
		return "No move left"
	default:
		return "Invalid move"
	}
}

// respond renders the board after an action, with an error line if it failed.
func (h *handlers) respond(w http.ResponseWriter, r *http.Request, id string, gs *app.GameState, err error) {
	var errMsg string
	if err != nil {
		errMsg = errorMessage(err)
		if gs == nil {
			if g, ok := h.svc.Get(id); ok {
				gs = g
			}
		}
	}
	if gs == nil {
		http.NotFound(w, r)
		return
	}
	writeHTML(w, http.StatusOK, h.renderBoard(*gs, errMsg))
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pid := ensurePlayerCookie(w, r)
	i, err := cellFromForm(r)
	var gs *app.GameState
	if err == nil {
		gs, err = h.svc.Play(r.Context(), id, pid, i)
	}
	h.respond(w, r, id, gs, err)
}

func (h *handlers) reset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pid := ensurePlayerCookie(w, r)
	gs, err := h.svc.Reset(id, pid)
	h.respond(w, r, id, gs, err)
}

func (h *handlers) difficulty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pid := ensurePlayerCookie(w, r)
	tier, err := domain.ParseTier(r.FormValue("tier"))
	var gs *app.GameState
	if err == nil {
		gs, err = h.svc.SetTier(id, pid, tier)
	}
	h.respond(w, r, id, gs, err)
}

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	// In tests or non-EventSource requests, just acknowledge headers and return
	if r.Header.Get("Accept") != "text/event-stream" {
		w.WriteHeader(http.StatusOK)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	ctx := r.Context()
	ch, unsub, err := h.svc.Subscribe(ctx, id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer unsub()
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	// Initial flush of headers
	flusher.Flush()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			flusher.Flush()
		case b, ok := <-ch:
			if !ok {
				return
			}
			writeEvent(w, "board", b)
			flusher.Flush()
		}
	}
}

// writeEvent emits one SSE event; every payload line gets its own data field.
func writeEvent(w io.Writer, event string, payload []byte) {
	_, _ = fmt.Fprintf(w, "event: %s\n", event)
	for _, line := range strings.Split(strings.TrimRight(string(payload), "\n"), "\n") {
		_, _ = fmt.Fprintf(w, "data: %s\n", line)
	}
	_, _ = io.WriteString(w, "\n")
}

func (h *handlers) about(w http.ResponseWriter, r *http.Request) {
	writeHTML(w, http.StatusOK, renderTemplate(h.tpl.about, "base", domain.Tiers))
}

func (h *handlers) statsPage(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Stats(r.Context())
	if err != nil {
		h.log.Error("load statistics", zap.Error(err))
		http.Error(w, "failed to load statistics", http.StatusInternalServerError)
		return
	}
	writeHTML(w, http.StatusOK, renderTemplate(h.tpl.stats, "base", statsRows(s)))
}

func (h *handlers) statsJSON(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Stats(r.Context())
	if err != nil {
		h.log.Error("load statistics", zap.Error(err))
		http.Error(w, "failed to load statistics", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"statistics": s})
}

func (h *handlers) statsReset(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ResetStats(r.Context()); err != nil {
		h.log.Error("reset statistics", zap.Error(err))
		http.Error(w, "failed to reset statistics", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/stats", http.StatusSeeOther)
}
