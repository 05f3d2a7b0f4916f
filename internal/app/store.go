package app

import (
	"fmt"

	"github.com/riskibarqy/contest-wheel/internal/config"
	"github.com/riskibarqy/contest-wheel/internal/domain/competition"
	"github.com/riskibarqy/contest-wheel/internal/domain/question"
	"github.com/riskibarqy/contest-wheel/internal/domain/submission"
	"github.com/riskibarqy/contest-wheel/internal/domain/ticket"
	"github.com/riskibarqy/contest-wheel/internal/domain/wheel"
	"github.com/riskibarqy/contest-wheel/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/contest-wheel/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/contest-wheel/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/contest-wheel/internal/platform/logging"
)

type repositories struct {
	competitions competition.Repository
	questions    question.Repository
	// snapshotQuestions always reads the backend so a lock never sees a
	// cached question list.
	snapshotQuestions question.Repository
	submissions       submission.Repository
	tickets           ticket.Repository
	wheels            wheel.Repository
}

func openRepositories(cfg config.Config, logger *logging.Logger) (repositories, func() error, error) {
	var (
		repos   repositories
		cleanup = func() error { return nil }
	)

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, target, err := openDatabase(cfg)
		if err != nil {
			return repositories{}, nil, err
		}
		repos = repositories{
			competitions: postgres.NewCompetitionRepository(db),
			questions:    postgres.NewQuestionRepository(db),
			submissions:  postgres.NewSubmissionRepository(db),
			tickets:      postgres.NewTicketRepository(db),
			wheels:       postgres.NewWheelRepository(db),
		}
		cleanup = db.Close
		logger.Info("storage ready", "driver", cfg.StorageDriver, "db_name", target.Name)
	case config.StorageMemory, "":
		wheels := memory.NewWheelRepository()
		repos = repositories{
			competitions: memory.NewCompetitionRepository(memory.SeedCompetitions()),
			questions:    memory.NewQuestionRepository(memory.SeedQuestions()),
			submissions:  memory.NewSubmissionRepository(memory.SeedSubmissions()),
			tickets:      memory.NewTicketRepository(wheels),
			wheels:       wheels,
		}
		logger.Info("storage ready", "driver", config.StorageMemory)
	default:
		return repositories{}, nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}

	repos.snapshotQuestions = repos.questions
	if cfg.CacheEnabled {
		repos.competitions = cache.NewCompetitionRepository(repos.competitions, cfg.CacheTTL)
		repos.questions = cache.NewQuestionRepository(repos.questions, cfg.CacheTTL)
	}

	return repos, cleanup, nil
}
