package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerAdminLedgerRoutes(mux *http.ServeMux, handler *Handler, adminToken string) {
	mux.Handle("POST /v1/admin/submissions/{submissionID}/tickets", RequireAdminToken(adminToken, http.HandlerFunc(handler.UpsertSubmissionTickets)))
	mux.Handle("POST /v1/admin/competitions/{competitionID}/tickets/recalculate", RequireAdminToken(adminToken, http.HandlerFunc(handler.RecalculateCompetitionTickets)))
	mux.Handle("GET /v1/admin/competitions/{competitionID}/tickets", RequireAdminToken(adminToken, http.HandlerFunc(handler.ListCompetitionTickets)))
	mux.Handle("GET /v1/admin/competitions/{competitionID}/participants/{participantID}/eligibility", RequireAdminToken(adminToken, http.HandlerFunc(handler.GetParticipantEligibility)))
	mux.Handle("GET /v1/admin/competitions/{competitionID}/candidates", RequireAdminToken(adminToken, http.HandlerFunc(handler.ListCandidates)))
}

func registerAdminWheelRoutes(mux *http.ServeMux, handler *Handler, adminToken string) {
	mux.Handle("POST /v1/admin/competitions/{competitionID}/wheel/lock", RequireAdminToken(adminToken, http.HandlerFunc(handler.LockWheel)))
	mux.Handle("GET /v1/admin/competitions/{competitionID}/wheel", RequireAdminToken(adminToken, http.HandlerFunc(handler.GetCompetitionWheel)))
	mux.Handle("GET /v1/admin/competitions/{competitionID}/winners", RequireAdminToken(adminToken, http.HandlerFunc(handler.ListWinners)))
	mux.Handle("POST /v1/admin/wheel-runs/{runID}/draw", RequireAdminToken(adminToken, http.HandlerFunc(handler.DrawWheel)))
	mux.Handle("GET /v1/admin/wheel-runs/{runID}", RequireAdminToken(adminToken, http.HandlerFunc(handler.GetWheelRun)))
	// Replays a completed draw from its stored record.
	mux.Handle("GET /v1/admin/wheel-runs/{runID}/verify", RequireAdminToken(adminToken, http.HandlerFunc(handler.VerifyWheelRun)))
}
