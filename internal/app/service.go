package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jaminalder/tictactoe-ai/internal/ai"
	"github.com/jaminalder/tictactoe-ai/internal/domain"
	"github.com/jaminalder/tictactoe-ai/internal/stats"
	"go.uber.org/zap"
)

// Errors exposed by the service layer.
var (
	ErrNotFound    = errors.New("game not found")
	ErrNotYourTurn = errors.New("not your turn")
	ErrNotAPlayer  = errors.New("not a player")
)

// The human always plays X and moves first; the computer answers as O.
const (
	Human    = domain.X
	Computer = domain.O
)

// GameState is the in-memory state tracked per game.
type GameState struct {
	ID      string
	Game    domain.Game
	Tier    domain.Tier
	Player  string
	Created time.Time
	Updated time.Time
}

type subscriber struct {
	ch        chan []byte
	closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Service manages games against the computer, subscribers and statistics.
type Service struct {
	mu       sync.Mutex
	games    map[string]*GameState
	subs     map[string]map[*subscriber]struct{}
	render   func(GameState) []byte
	opponent *ai.Opponent
	store    stats.Store
	log      *zap.Logger
}

// NewService creates a service. A nil store keeps statistics in memory and a
// nil logger discards output.
func NewService(opponent *ai.Opponent, store stats.Store, log *zap.Logger) *Service {
	if opponent == nil {
		opponent = ai.NewOpponent(nil)
	}
	if store == nil {
		store = stats.NewMemory()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		games:    make(map[string]*GameState),
		subs:     make(map[string]map[*subscriber]struct{}),
		render:   func(gs GameState) []byte { return nil },
		opponent: opponent,
		store:    store,
		log:      log,
	}
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(GameState) []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if renderer == nil {
		s.render = func(gs GameState) []byte { return nil }
		return
	}
	s.render = renderer
}

// CreateGame creates and registers a new game at the given tier.
func (s *Service) CreateGame(tier domain.Tier) (*GameState, error) {
	if !tier.Valid() {
		return nil, domain.ErrUnknownTier
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	gs := &GameState{ID: newID(), Game: domain.New(), Tier: tier, Created: now, Updated: now}
	s.games[gs.ID] = gs
	s.log.Debug("game created", zap.String("game", gs.ID), zap.Stringer("tier", tier))
	cp := *gs
	return &cp, nil
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return nil, false
	}
	cp := *gs
	return &cp, true
}

// Join gives the human seat to the first player; later visitors spectate
// and get Empty.
func (s *Service) Join(id, playerID string) (domain.Cell, *GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return domain.Empty, nil, ErrNotFound
	}
	side := domain.Empty
	if playerID != "" && (gs.Player == "" || gs.Player == playerID) {
		gs.Player = playerID
		side = Human
	}
	gs.Updated = time.Now()
	cp := *gs
	return side, &cp, nil
}

// Play applies the human move at index i, lets the computer answer when the
// game goes on, records finished games and broadcasts the new state.
func (s *Service) Play(ctx context.Context, id, playerID string, i int) (*GameState, error) {
	s.mu.Lock()
	gs, ok := s.games[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	if playerID == "" || gs.Player != playerID {
		s.mu.Unlock()
		return nil, ErrNotAPlayer
	}
	if gs.Game.Turn != Human && !gs.Game.Over() {
		s.mu.Unlock()
		return nil, ErrNotYourTurn
	}
	before := gs.Game
	if err := gs.Game.Play(i); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.log.Debug("human move", zap.String("game", id), zap.Int("cell", i))

	if !gs.Game.Over() {
		j, err := s.opponent.Select(&gs.Game.Board, Computer, gs.Tier)
		if err == nil {
			err = gs.Game.Play(j)
		}
		if err != nil {
			gs.Game = before
			s.mu.Unlock()
			s.log.Error("computer move failed", zap.String("game", id), zap.Error(err))
			return nil, fmt.Errorf("computer move: %w", err)
		}
		s.log.Debug("computer move", zap.String("game", id), zap.Int("cell", j), zap.Stringer("tier", gs.Tier))
	}
	gs.Updated = time.Now()
	cp := s.publishLocked(gs)
	s.mu.Unlock()

	if cp.Game.Over() {
		s.record(ctx, cp)
	}
	return &cp, nil
}

// Reset starts a fresh board at the same tier.
func (s *Service) Reset(id, playerID string) (*GameState, error) {
	return s.restart(id, playerID, func(gs *GameState) error { return nil })
}

// SetTier changes the difficulty and starts a fresh board.
func (s *Service) SetTier(id, playerID string, tier domain.Tier) (*GameState, error) {
	if !tier.Valid() {
		return nil, domain.ErrUnknownTier
	}
	return s.restart(id, playerID, func(gs *GameState) error {
		gs.Tier = tier
		return nil
	})
}

func (s *Service) restart(id, playerID string, update func(*GameState) error) (*GameState, error) {
	s.mu.Lock()
	gs, ok := s.games[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	if playerID == "" || gs.Player != playerID {
		s.mu.Unlock()
		return nil, ErrNotAPlayer
	}
	if err := update(gs); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	gs.Game = domain.New()
	gs.Updated = time.Now()
	cp := s.publishLocked(gs)
	s.mu.Unlock()

	s.log.Debug("game reset", zap.String("game", id), zap.Stringer("tier", cp.Tier))
	return &cp, nil
}

// Stats returns the counters for every tier.
func (s *Service) Stats(ctx context.Context) (stats.Statistics, error) {
	return s.store.Snapshot(ctx)
}

// ResetStats zeroes every counter.
func (s *Service) ResetStats(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return err
	}
	s.log.Info("statistics reset")
	return nil
}

func (s *Service) record(ctx context.Context, gs GameState) {
	kind, ok := stats.KindFor(gs.Game.Outcome, Human)
	if !ok {
		return
	}
	s.log.Info("game finished",
		zap.String("game", gs.ID),
		zap.Stringer("tier", gs.Tier),
		zap.Stringer("result", kind),
		zap.Int("moves", gs.Game.Moves),
	)
	if err := s.store.Add(ctx, gs.Tier, kind); err != nil {
		s.log.Error("record statistics", zap.String("game", gs.ID), zap.Error(err))
	}
}

// Subscribe registers a subscriber for a game. Returns a channel and an unsubscribe func.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return nil, nil, ErrNotFound
	}
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	sub := &subscriber{ch: make(chan []byte, 1)}
	set[sub] = struct{}{}

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.mu.Lock()
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
			}
			sub.close()
			s.mu.Unlock()
		})
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub, nil
}

// publishLocked snapshots gs and fans the rendered board out. Sends never
// block: a subscriber with a full buffer is closed and dropped. Sends and
// closes both happen under s.mu.
func (s *Service) publishLocked(gs *GameState) GameState {
	cp := *gs
	set := s.subs[gs.ID]
	if len(set) == 0 {
		return cp
	}
	payload := s.render(cp)
	dropped := 0
	for sub := range set {
		select {
		case sub.ch <- payload:
		default:
			sub.close()
			delete(set, sub)
			dropped++
		}
	}
	if dropped > 0 {
		s.log.Debug("dropped slow subscribers", zap.String("game", gs.ID), zap.Int("count", dropped))
	}
	return cp
}
