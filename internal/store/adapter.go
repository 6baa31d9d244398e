package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/KevMathews/jeopardy/internal/engine"
	"github.com/KevMathews/jeopardy/internal/trivia"
)

const gameStateKey = "jeopardy:game_state:"
const usedCategoriesKey = "jeopardy:used_categories:"

// storedGameState mirrors engine.State with the set-valued fields flattened
// to arrays for storage, plus a save timestamp.
type storedGameState struct {
	Phase                engine.Phase           `json:"phase"`
	Players              []engine.Player        `json:"players"`
	CurrentPlayerIndex   int                    `json:"current_player_index"`
	CurrentRound         int                    `json:"current_round"`
	Categories           []trivia.Category      `json:"categories"`
	AnsweredCells        []string               `json:"answered_cells"`
	DailyDoubleLocations []string               `json:"daily_double_locations"`
	UsedCategoryIDs      []int                  `json:"used_category_ids"`
	SelectedCell         string                 `json:"selected_cell,omitempty"`
	ActiveQuestion       *engine.ActiveQuestion `json:"active_question,omitempty"`
	Timestamp            time.Time              `json:"timestamp"`
}

// Adapter persists game records through a Store. Every method follows the
// same contract: failures are logged and swallowed, never surfaced. The
// in-memory state stays authoritative; storage is best-effort durability
// for resumption only.
type Adapter struct {
	store  Store
	logger *zap.Logger
}

func NewAdapter(s Store, logger *zap.Logger) *Adapter {
	return &Adapter{store: s, logger: logger}
}

// SaveGameState serializes the state under the session code. Reports success
// so callers can count failures, but never returns an error.
func (a *Adapter) SaveGameState(ctx context.Context, code string, s engine.State) bool {
	stored := storedGameState{
		Phase:                s.Phase,
		Players:              s.Players,
		CurrentPlayerIndex:   s.CurrentPlayerIndex,
		CurrentRound:         s.CurrentRound,
		Categories:           s.Categories,
		AnsweredCells:        setToSlice(s.AnsweredCells),
		DailyDoubleLocations: setToSlice(s.DailyDoubleLocations),
		UsedCategoryIDs:      setToSlice(s.UsedCategoryIDs),
		SelectedCell:         s.SelectedCell,
		ActiveQuestion:       s.ActiveQuestion,
		Timestamp:            time.Now(),
	}

	data, err := json.Marshal(stored)
	if err != nil {
		a.logger.Error("failed to serialize game state", zap.String("code", code), zap.Error(err))
		return false
	}
	if err := a.store.Set(ctx, gameStateKey+code, string(data)); err != nil {
		a.logger.Error("failed to save game state", zap.String("code", code), zap.Error(err))
		return false
	}
	return true
}

// LoadGameState reconstitutes a saved state, rebuilding the set-valued
// fields. Missing or corrupt data both come back as nil.
func (a *Adapter) LoadGameState(ctx context.Context, code string) *engine.State {
	raw, err := a.store.Get(ctx, gameStateKey+code)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			a.logger.Error("failed to load game state", zap.String("code", code), zap.Error(err))
		}
		return nil
	}

	var stored storedGameState
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		a.logger.Error("corrupt game state record", zap.String("code", code), zap.Error(err))
		return nil
	}

	return &engine.State{
		Phase:                stored.Phase,
		Players:              stored.Players,
		CurrentPlayerIndex:   stored.CurrentPlayerIndex,
		CurrentRound:         stored.CurrentRound,
		Categories:           stored.Categories,
		AnsweredCells:        sliceToSet(stored.AnsweredCells),
		DailyDoubleLocations: sliceToSet(stored.DailyDoubleLocations),
		UsedCategoryIDs:      sliceToSet(stored.UsedCategoryIDs),
		SelectedCell:         stored.SelectedCell,
		ActiveQuestion:       stored.ActiveQuestion,
	}
}

func (a *Adapter) ClearGameState(ctx context.Context, code string) {
	if err := a.store.Delete(ctx, gameStateKey+code); err != nil {
		a.logger.Error("failed to clear game state", zap.String("code", code), zap.Error(err))
	}
}

// SaveUsedCategories persists the category-exclusion set independently so it
// can outlive a single game if desired.
func (a *Adapter) SaveUsedCategories(ctx context.Context, code string, usedIDs map[int]bool) bool {
	data, err := json.Marshal(setToSlice(usedIDs))
	if err != nil {
		a.logger.Error("failed to serialize used categories", zap.String("code", code), zap.Error(err))
		return false
	}
	if err := a.store.Set(ctx, usedCategoriesKey+code, string(data)); err != nil {
		a.logger.Error("failed to save used categories", zap.String("code", code), zap.Error(err))
		return false
	}
	return true
}

// LoadUsedCategories returns the saved exclusion set, empty when nothing
// usable is stored.
func (a *Adapter) LoadUsedCategories(ctx context.Context, code string) map[int]bool {
	raw, err := a.store.Get(ctx, usedCategoriesKey+code)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			a.logger.Error("failed to load used categories", zap.String("code", code), zap.Error(err))
		}
		return map[int]bool{}
	}

	var ids []int
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		a.logger.Error("corrupt used categories record", zap.String("code", code), zap.Error(err))
		return map[int]bool{}
	}
	return sliceToSet(ids)
}

func (a *Adapter) ClearUsedCategories(ctx context.Context, code string) {
	if err := a.store.Delete(ctx, usedCategoriesKey+code); err != nil {
		a.logger.Error("failed to clear used categories", zap.String("code", code), zap.Error(err))
	}
}

// ClearAll wipes both records for a session: the "new game" path.
func (a *Adapter) ClearAll(ctx context.Context, code string) {
	a.ClearGameState(ctx, code)
	a.ClearUsedCategories(ctx, code)
}

func setToSlice[K int | string](set map[K]bool) []K {
	out := make([]K, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}

func sliceToSet[K int | string](items []K) map[K]bool {
	out := make(map[K]bool, len(items))
	for _, item := range items {
		out[item] = true
	}
	return out
}
