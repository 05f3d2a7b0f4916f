package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/contest-wheel/internal/domain/submission"
)

type SubmissionRepository struct {
	mu    sync.RWMutex
	items map[string]submission.Submission
}

func NewSubmissionRepository(items []submission.Submission) *SubmissionRepository {
	byID := make(map[string]submission.Submission, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	return &SubmissionRepository{items: byID}
}

func (r *SubmissionRepository) GetByID(_ context.Context, submissionID string) (submission.Submission, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[submissionID]
	return item, ok, nil
}

func (r *SubmissionRepository) List(_ context.Context, filter submission.Filter) ([]submission.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]submission.Submission, 0)
	for _, item := range r.items {
		if filter.CompetitionID != "" && item.CompetitionID != filter.CompetitionID {
			continue
		}
		if filter.FinalResult != "" && item.FinalResult != filter.FinalResult {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].SubmittedAt.Before(out[j].SubmittedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *SubmissionRepository) CountCorrectByParticipant(_ context.Context, competitionID, participantID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, item := range r.items {
		if item.CompetitionID == competitionID && item.ParticipantID == participantID && item.IsCorrect() {
			count++
		}
	}
	return count, nil
}

// Save inserts or replaces a submission, standing in for the review
// workflow that owns final results.
func (r *SubmissionRepository) Save(_ context.Context, item submission.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = item
	return nil
}
