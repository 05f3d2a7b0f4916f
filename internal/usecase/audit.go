package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/riskibarqy/contest-wheel/internal/platform/logging"
)

const (
	AuditTicketsUpserted     = "tickets.upserted"
	AuditTicketsRecalculated = "tickets.recalculated"
	AuditWheelLocked         = "wheel.locked"
	AuditWheelDrawn          = "wheel.drawn"
)

// AuditEvent describes one state change of the ledger or the wheel.
type AuditEvent struct {
	Name          string
	CompetitionID string
	Actor         string
	At            time.Time
	Attributes    map[string]any
}

// AuditRecorder receives audit events after the change is stored. Recording
// must not fail the operation.
type AuditRecorder interface {
	Record(ctx context.Context, event AuditEvent)
}

type LogAuditRecorder struct {
	logger *logging.Logger
}

func NewLogAuditRecorder(logger *logging.Logger) *LogAuditRecorder {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogAuditRecorder{logger: logger.With("component", "audit")}
}

func (r *LogAuditRecorder) Record(ctx context.Context, event AuditEvent) {
	args := []any{
		"event", event.Name,
		"competition_id", event.CompetitionID,
		"at", event.At,
	}
	if event.Actor != "" {
		args = append(args, "actor", event.Actor)
	}

	keys := make([]string, 0, len(event.Attributes))
	for key := range event.Attributes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		args = append(args, key, event.Attributes[key])
	}

	r.logger.InfoContext(ctx, "audit event", args...)
}
