package app

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/contest-wheel/internal/config"
	"github.com/riskibarqy/contest-wheel/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/contest-wheel/internal/platform/id"
	"github.com/riskibarqy/contest-wheel/internal/platform/keylock"
	"github.com/riskibarqy/contest-wheel/internal/platform/logging"
	"github.com/riskibarqy/contest-wheel/internal/usecase"
)

// NewHTTPServer wires storage, services and the router. The returned cleanup
// releases the storage backend and must be called after the server stops.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	repos, cleanup, err := openRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	locks := keylock.New()
	ids := idgen.NewRandomGenerator()

	ticketSvc := usecase.NewTicketService(
		repos.competitions,
		repos.submissions,
		repos.tickets,
		repos.wheels,
		ids,
		locks,
		logger,
	)
	eligibilitySvc := usecase.NewEligibilityService(
		repos.competitions,
		repos.questions,
		repos.submissions,
		repos.tickets,
		cfg.EligibilityWorkers,
		logger,
	)
	snapshotEligibility := usecase.NewEligibilityService(
		repos.competitions,
		repos.snapshotQuestions,
		repos.submissions,
		repos.tickets,
		cfg.EligibilityWorkers,
		logger,
	)
	wheelSvc := usecase.NewWheelService(
		repos.competitions,
		repos.wheels,
		snapshotEligibility,
		ids,
		ids,
		locks,
		logger,
	)

	handler := httpapi.NewHandler(ticketSvc, eligibilitySvc, wheelSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.AdminToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, cleanup, nil
}
