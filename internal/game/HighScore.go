package game

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
)

// KeyValueStore persists string values under string keys.
type KeyValueStore interface {
	Get(key string) (value string, found bool, err error)
	Set(key, value string) error
}

// HighScoreService keeps the top scores as a JSON array under HighScoresKey.
type HighScoreService struct {
	mu    sync.Mutex
	store KeyValueStore
}

func NewHighScoreService(store KeyValueStore) *HighScoreService {
	return &HighScoreService{store: store}
}

// Load returns the stored list highest first and cut to HighScoreLimit, or an
// empty list when nothing usable is stored.
func (serviceImpl *HighScoreService) Load() []int {
	serviceImpl.mu.Lock()
	defer serviceImpl.mu.Unlock()
	return serviceImpl.load()
}

func (serviceImpl *HighScoreService) load() []int {
	raw, found, err := serviceImpl.store.Get(HighScoresKey)
	if err != nil {
		log.Warn("Could not read high scores, starting empty", "error", err)
		return []int{}
	}
	if !found {
		return []int{}
	}

	var highScores []int
	if err := json.Unmarshal([]byte(raw), &highScores); err != nil {
		log.Warn("Stored high scores are malformed, starting empty", "error", err, "raw", raw)
		return []int{}
	}
	return normalizeHighScores(highScores)
}

func normalizeHighScores(highScores []int) []int {
	result := make([]int, 0, len(highScores))
	result = append(result, highScores...)
	sort.Sort(sort.Reverse(sort.IntSlice(result)))
	if len(result) > HighScoreLimit {
		result = result[:HighScoreLimit]
	}
	return result
}

// Record adds score to the list and persists the top HighScoreLimit entries.
// The returned list is the new top list even when persisting it failed.
func (serviceImpl *HighScoreService) Record(score int) ([]int, error) {
	serviceImpl.mu.Lock()
	defer serviceImpl.mu.Unlock()

	highScores := InsertHighScore(serviceImpl.load(), score)

	encoded, err := json.Marshal(highScores)
	if err != nil {
		return highScores, fmt.Errorf("failed to encode high scores: %w", err)
	}
	if err := serviceImpl.store.Set(HighScoresKey, string(encoded)); err != nil {
		return highScores, fmt.Errorf("failed to save high score %d: %w", score, err)
	}
	return highScores, nil
}

// InsertHighScore appends score, sorts highest first and keeps HighScoreLimit entries.
func InsertHighScore(highScores []int, score int) []int {
	combined := make([]int, 0, len(highScores)+1)
	combined = append(combined, highScores...)
	return normalizeHighScores(append(combined, score))
}
