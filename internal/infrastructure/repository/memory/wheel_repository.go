package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/contest-wheel/internal/domain/wheel"
)

type WheelRepository struct {
	mu                 sync.RWMutex
	runs               map[string]wheel.Run
	runIDByCompetition map[string]string
	winners            map[string][]wheel.Winner
}

func NewWheelRepository() *WheelRepository {
	return &WheelRepository{
		runs:               make(map[string]wheel.Run),
		runIDByCompetition: make(map[string]string),
		winners:            make(map[string][]wheel.Winner),
	}
}

func (r *WheelRepository) GetRunByCompetition(_ context.Context, competitionID string) (wheel.Run, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	runID, ok := r.runIDByCompetition[competitionID]
	if !ok {
		return wheel.Run{}, false, nil
	}
	return r.runs[runID].Clone(), true, nil
}

func (r *WheelRepository) GetRunByID(_ context.Context, runID string) (wheel.Run, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.runs[runID]
	if !ok {
		return wheel.Run{}, false, nil
	}
	return run.Clone(), true, nil
}

func (r *WheelRepository) CreateRun(_ context.Context, run wheel.Run) error {
	if run.ID == "" || run.CompetitionID == "" {
		return fmt.Errorf("wheel run id and competition id are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.runIDByCompetition[run.CompetitionID]; exists {
		return wheel.ErrRunExists
	}
	if _, exists := r.runs[run.ID]; exists {
		return fmt.Errorf("wheel run %s already stored", run.ID)
	}
	r.runs[run.ID] = run.Clone()
	r.runIDByCompetition[run.CompetitionID] = run.ID
	return nil
}

func (r *WheelRepository) CompleteRun(_ context.Context, runID string, outcome wheel.Outcome, winner wheel.Winner) error {
	if err := winner.Validate(); err != nil {
		return fmt.Errorf("invalid winner: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	run, ok := r.runs[runID]
	if !ok || !run.IsReady() {
		return wheel.ErrRunNotReady
	}
	r.runs[runID] = run.Apply(outcome)
	r.winners[run.CompetitionID] = append(r.winners[run.CompetitionID], winner)
	return nil
}

func (r *WheelRepository) ListWinnersByCompetition(_ context.Context, competitionID string) ([]wheel.Winner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := append([]wheel.Winner(nil), r.winners[competitionID]...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RunAt.Before(out[j].RunAt)
	})
	return out, nil
}

// Update overwrites a stored run as is. It exists for fault injection in
// tests and performs no transition checks.
func (r *WheelRepository) Update(_ context.Context, run wheel.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.runs[run.ID]; !ok {
		return fmt.Errorf("wheel run %s not found", run.ID)
	}
	r.runs[run.ID] = run.Clone()
	return nil
}

func (r *WheelRepository) hasRun(competitionID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.runIDByCompetition[competitionID]
	return ok
}
