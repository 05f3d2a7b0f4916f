package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/contest-wheel/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/contest-wheel/internal/platform/id"
	"github.com/riskibarqy/contest-wheel/internal/platform/keylock"
	"github.com/riskibarqy/contest-wheel/internal/platform/logging"
	"github.com/riskibarqy/contest-wheel/internal/usecase"
)

const testAdminToken = "test-admin-token"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := logging.NewNop()
	locks := keylock.New()
	ids := id.NewRandomGenerator()
	wheels := memory.NewWheelRepository()
	competitions := memory.NewCompetitionRepository(memory.SeedCompetitions())
	questions := memory.NewQuestionRepository(memory.SeedQuestions())
	submissions := memory.NewSubmissionRepository(memory.SeedSubmissions())
	tickets := memory.NewTicketRepository(wheels)

	ticketService := usecase.NewTicketService(competitions, submissions, tickets, wheels, ids, locks, logger)
	eligibilityService := usecase.NewEligibilityService(competitions, questions, submissions, tickets, 2, logger)
	wheelService := usecase.NewWheelService(competitions, wheels, eligibilityService, ids, ids, locks, logger)

	handler := NewHandler(ticketService, eligibilityService, wheelService, logger)
	return NewRouter(handler, logger, nil, testAdminToken)
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(adminTokenHeader, testAdminToken)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response body %q: %v", rec.Body.String(), err)
	}
	return rec, envelope
}

func errorReason(t *testing.T, envelope map[string]any) string {
	t.Helper()

	errorObj, ok := envelope["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object, got %v", envelope)
	}
	items, _ := errorObj["errors"].([]any)
	if len(items) == 0 {
		t.Fatalf("expected error items, got %v", errorObj)
	}
	item, _ := items[0].(map[string]any)
	reason, _ := item["reason"].(string)
	return reason
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRouter_AdminRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name  string
		token string
	}{
		{name: "missing token", token: ""},
		{name: "wrong token", token: "not-the-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/admin/competitions/"+memory.CompetitionIDSpringQuiz+"/candidates", nil)
			if tt.token != "" {
				req.Header.Set(adminTokenHeader, tt.token)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected status 401, got %d", rec.Code)
			}
		})
	}
}

func TestRouter_DrawLifecycle(t *testing.T) {
	router := newTestRouter(t)
	competitionPath := "/v1/admin/competitions/" + memory.CompetitionIDSpringQuiz

	rec, body := doRequest(t, router, http.MethodPost, competitionPath+"/tickets/recalculate", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("recalculate: expected 200, got %d body=%v", rec.Code, body)
	}
	summary, _ := body["data"].(map[string]any)
	if got, _ := summary["after_tickets"].(float64); got != 24 {
		t.Fatalf("expected 24 tickets after recalculation, got %v", summary["after_tickets"])
	}

	rec, body = doRequest(t, router, http.MethodGet, competitionPath+"/candidates", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("candidates: expected 200, got %d", rec.Code)
	}
	if items, _ := body["data"].([]any); len(items) != 4 {
		t.Fatalf("expected 4 candidate standings, got %v", body["data"])
	}

	rec, body = doRequest(t, router, http.MethodPost, competitionPath+"/wheel/lock", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("lock without locked_by: expected 400, got %d", rec.Code)
	}

	rec, body = doRequest(t, router, http.MethodPost, competitionPath+"/wheel/lock", `{"locked_by":"ops@example.com"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("lock: expected 201, got %d body=%v", rec.Code, body)
	}
	run, _ := body["data"].(map[string]any)
	runID, _ := run["id"].(string)
	if runID == "" {
		t.Fatalf("expected run id in lock response, got %v", run)
	}
	if _, ok := run["seed"]; ok {
		t.Fatalf("seed must not be published before the draw")
	}
	if commitment, _ := run["seed_commitment"].(string); len(commitment) != 64 {
		t.Fatalf("expected hex sha256 commitment, got %q", commitment)
	}

	rec, body = doRequest(t, router, http.MethodPost, competitionPath+"/wheel/lock", `{"locked_by":"ops@example.com"}`)
	if rec.Code != http.StatusConflict || errorReason(t, body) != "alreadyLocked" {
		t.Fatalf("second lock: expected 409 alreadyLocked, got %d %v", rec.Code, body)
	}

	rec, body = doRequest(t, router, http.MethodPost, competitionPath+"/tickets/recalculate", "")
	if rec.Code != http.StatusConflict || errorReason(t, body) != "competitionLocked" {
		t.Fatalf("recalculate after lock: expected 409 competitionLocked, got %d %v", rec.Code, body)
	}

	rec, body = doRequest(t, router, http.MethodGet, "/v1/admin/wheel-runs/"+runID+"/verify", "")
	if rec.Code != http.StatusConflict || errorReason(t, body) != "runNotDrawn" {
		t.Fatalf("verify before draw: expected 409 runNotDrawn, got %d %v", rec.Code, body)
	}

	rec, body = doRequest(t, router, http.MethodPost, "/v1/admin/wheel-runs/"+runID+"/draw", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("draw: expected 200, got %d body=%v", rec.Code, body)
	}
	result, _ := body["data"].(map[string]any)
	winner, _ := result["winner"].(map[string]any)
	winnerID, _ := winner["participant_id"].(string)
	switch winnerID {
	case "alice", "bob", "dave":
	default:
		t.Fatalf("winner %q is not an eligible candidate", winnerID)
	}

	rec, body = doRequest(t, router, http.MethodPost, "/v1/admin/wheel-runs/"+runID+"/draw", "")
	if rec.Code != http.StatusConflict || errorReason(t, body) != "runAlreadyExecuted" {
		t.Fatalf("second draw: expected 409 runAlreadyExecuted, got %d %v", rec.Code, body)
	}

	rec, body = doRequest(t, router, http.MethodGet, "/v1/admin/wheel-runs/"+runID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get run: expected 200, got %d", rec.Code)
	}
	run, _ = body["data"].(map[string]any)
	if seed, _ := run["seed"].(string); len(seed) != 64 {
		t.Fatalf("expected seed to be revealed after the draw, got %q", seed)
	}
	if status, _ := run["status"].(string); status != "done" {
		t.Fatalf("expected done status, got %q", status)
	}

	rec, body = doRequest(t, router, http.MethodGet, "/v1/admin/wheel-runs/"+runID+"/verify", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("verify: expected 200, got %d", rec.Code)
	}
	verification, _ := body["data"].(map[string]any)
	if valid, _ := verification["valid"].(bool); !valid {
		t.Fatalf("expected valid verification, got %v", verification)
	}
	if got, _ := verification["winner_id"].(string); got != winnerID {
		t.Fatalf("replayed winner %q, drawn winner %q", got, winnerID)
	}

	rec, body = doRequest(t, router, http.MethodGet, competitionPath+"/winners", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("winners: expected 200, got %d", rec.Code)
	}
	if items, _ := body["data"].([]any); len(items) != 1 {
		t.Fatalf("expected one winner, got %v", body["data"])
	}
}

func TestRouter_GetParticipantEligibility(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doRequest(t, router, http.MethodGet,
		"/v1/admin/competitions/"+memory.CompetitionIDSpringQuiz+"/participants/carol/eligibility", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	verdict, _ := body["data"].(map[string]any)
	if eligible, _ := verdict["eligible"].(bool); eligible {
		t.Fatalf("carol misses one answer and must not be eligible")
	}
	if reason, _ := verdict["reason"].(string); reason != "2/3 correct (need all)" {
		t.Fatalf("unexpected reason %q", reason)
	}
}

func TestRouter_UpsertSubmissionTickets(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doRequest(t, router, http.MethodPost, "/v1/admin/submissions/spring-quiz-2026-bob-q1/tickets", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%v", rec.Code, body)
	}
	result, _ := body["data"].(map[string]any)
	if got, _ := result["count"].(float64); got != 2 {
		t.Fatalf("expected 2 tickets for a 30h submission, got %v", result["count"])
	}

	rec, body = doRequest(t, router, http.MethodGet,
		"/v1/admin/competitions/"+memory.CompetitionIDSpringQuiz+"/tickets?participant_id=bob", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list tickets: expected 200, got %d", rec.Code)
	}
	if items, _ := body["data"].([]any); len(items) != 1 {
		t.Fatalf("expected a single ledger row for bob, got %v", body["data"])
	}
}

func TestRouter_NotFound(t *testing.T) {
	router := newTestRouter(t)

	rec, body := doRequest(t, router, http.MethodGet, "/v1/admin/wheel-runs/missing", "")
	if rec.Code != http.StatusNotFound || errorReason(t, body) != "notFound" {
		t.Fatalf("expected 404 notFound, got %d %v", rec.Code, body)
	}

	rec, body = doRequest(t, router, http.MethodPost, "/v1/admin/competitions/open-trivia-2026/wheel/lock", `{"locked_by":"ops"}`)
	if rec.Code != http.StatusUnprocessableEntity || errorReason(t, body) != "noEligibleCandidates" {
		t.Fatalf("expected 422 noEligibleCandidates, got %d %v", rec.Code, body)
	}
}
