package app

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/contest-wheel/internal/config"
	"github.com/riskibarqy/contest-wheel/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/contest-wheel/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/contest-wheel/internal/platform/logging"
)

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:             config.EnvDev,
		HTTPAddr:           ":0",
		StorageDriver:      config.StorageMemory,
		CacheEnabled:       true,
		CacheTTL:           time.Minute,
		CORSAllowedOrigins: []string{"*"},
		ReadTimeout:        time.Second,
		WriteTimeout:       time.Second,
		EligibilityWorkers: 2,
	}
}

func TestNewHTTPServer_MemoryStorage(t *testing.T) {
	srv, cleanup, err := NewHTTPServer(memoryConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("build server: %v", err)
	}
	defer func() {
		if err := cleanup(); err != nil {
			t.Fatalf("cleanup: %v", err)
		}
	}()

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/competitions/spring-quiz-2026/candidates", nil)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected open admin routes without a token in dev, got %d", rec.Code)
	}
}

func TestNewHTTPServer_RejectsEmptyAddr(t *testing.T) {
	cfg := memoryConfig()
	cfg.HTTPAddr = ""

	if _, _, err := NewHTTPServer(cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error for empty HTTP addr")
	}
}

func TestOpenRepositories(t *testing.T) {
	t.Run("cache enabled wraps read models", func(t *testing.T) {
		repos, _, err := openRepositories(memoryConfig(), logging.NewNop())
		if err != nil {
			t.Fatalf("open repositories: %v", err)
		}
		if _, ok := repos.competitions.(*cache.CompetitionRepository); !ok {
			t.Fatalf("expected cached competition repository, got %T", repos.competitions)
		}
		if _, ok := repos.questions.(*cache.QuestionRepository); !ok {
			t.Fatalf("expected cached question repository, got %T", repos.questions)
		}
		if _, ok := repos.snapshotQuestions.(*cache.QuestionRepository); ok {
			t.Fatalf("expected snapshot questions to bypass the cache")
		}
		if _, ok := repos.snapshotQuestions.(*memory.QuestionRepository); !ok {
			t.Fatalf("expected backend question repository, got %T", repos.snapshotQuestions)
		}
	})

	t.Run("cache disabled keeps backend", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.CacheEnabled = false
		repos, _, err := openRepositories(cfg, logging.NewNop())
		if err != nil {
			t.Fatalf("open repositories: %v", err)
		}
		if _, ok := repos.competitions.(*cache.CompetitionRepository); ok {
			t.Fatalf("expected uncached competition repository")
		}
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := memoryConfig()
		cfg.StorageDriver = "sqlite"
		if _, _, err := openRepositories(cfg, logging.NewNop()); err == nil {
			t.Fatalf("expected error for unsupported driver")
		}
	})
}
