package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/contest-wheel/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/contest-wheel/internal/platform/keylock"
	"github.com/riskibarqy/contest-wheel/internal/platform/logging"
)

var fixtureNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type sequenceIDGenerator struct {
	prefix string
	next   atomic.Int64
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	return fmt.Sprintf("%s-%03d", g.prefix, g.next.Add(1)), nil
}

type fixedSeedSource struct {
	seed string
}

func (s fixedSeedSource) NewSeed() (string, error) {
	return s.seed, nil
}

type recordingAudit struct {
	mu     sync.Mutex
	events []AuditEvent
}

func (r *recordingAudit) Record(_ context.Context, event AuditEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingAudit) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, event := range r.events {
		out = append(out, event.Name)
	}
	return out
}

const fixtureSeed = "4f1c2b9a7d3e6f8051a2c4e6f8091b3d5f7a9c1e3b5d7f9012345678abcdef01"

// fixture wires every service on the seeded memory store, sharing one
// keylock like the application does.
type fixture struct {
	competitions *memory.CompetitionRepository
	questions    *memory.QuestionRepository
	submissions  *memory.SubmissionRepository
	tickets      *memory.TicketRepository
	wheels       *memory.WheelRepository

	ticketService      *TicketService
	eligibilityService *EligibilityService
	wheelService       *WheelService
	audit              *recordingAudit
}

func newFixture() *fixture {
	logger := logging.NewNop()
	locks := keylock.New()
	wheels := memory.NewWheelRepository()

	f := &fixture{
		competitions: memory.NewCompetitionRepository(memory.SeedCompetitions()),
		questions:    memory.NewQuestionRepository(memory.SeedQuestions()),
		submissions:  memory.NewSubmissionRepository(memory.SeedSubmissions()),
		tickets:      memory.NewTicketRepository(wheels),
		wheels:       wheels,
		audit:        &recordingAudit{},
	}

	f.ticketService = NewTicketService(f.competitions, f.submissions, f.tickets, f.wheels,
		&sequenceIDGenerator{prefix: "ticket"}, locks, logger)
	f.ticketService.now = func() time.Time { return fixtureNow }
	f.ticketService.SetAuditRecorder(f.audit)

	f.eligibilityService = NewEligibilityService(f.competitions, f.questions, f.submissions, f.tickets, 4, logger)

	f.wheelService = NewWheelService(f.competitions, f.wheels, f.eligibilityService,
		&sequenceIDGenerator{prefix: "wheel"}, fixedSeedSource{seed: fixtureSeed}, locks, logger)
	f.wheelService.now = func() time.Time { return fixtureNow }
	f.wheelService.SetAuditRecorder(f.audit)

	return f
}
