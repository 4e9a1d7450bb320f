package main

import (
	"expvar"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (app *application) routes() http.Handler {
	router := chi.NewRouter()

	router.NotFound(app.notFoundResponse)
	router.MethodNotAllowed(app.methodNotAllowedRequest)

	router.Use(app.metrics)
	router.Use(app.recoverPanic)
	router.Use(app.enableCORS)
	router.Use(app.rateLimit)

	router.Get("/v1/healthcheck", app.HealthCheck)
	router.Method(http.MethodGet, "/v1/metrics", expvar.Handler())

	router.Route("/v1/teams", func(router chi.Router) {
		router.Post("/", app.InsertTeam)
		router.Get("/", app.GetAllTeams)
		router.Get("/{id}", app.GetTeam)
		router.Patch("/{id}", app.UpdateTeam)
		router.Delete("/{id}", app.DeleteTeam)

		router.Get("/{id}/players", app.GetTeamPlayers)
		router.Get("/{id}/attendance", app.GetTeamAttendance)
		router.Put("/{id}/attendance", app.UpsertAttendance)
		router.Put("/{id}/attendance/bulk", app.BulkUpsertAttendance)
		router.Get("/{id}/plans", app.GetTeamPlans)
		router.Get("/{id}/matchlogs", app.GetTeamMatchLogs)
		router.Get("/{id}/report", app.GetTeamReport)
	})

	router.Route("/v1/players", func(router chi.Router) {
		router.Post("/", app.InsertPlayer)
		router.Get("/", app.GetAllPlayers)
		router.Get("/{id}", app.GetPlayer)
		router.Patch("/{id}", app.UpdatePlayer)
		router.Delete("/{id}", app.DeletePlayer)

		router.Get("/{id}/attendance", app.GetPlayerAttendance)
		router.Post("/{id}/documents", app.UploadDocument)
		router.Delete("/{id}/documents/{documentID}", app.DeleteDocument)
	})

	router.Delete("/v1/attendance/{id}", app.DeleteAttendance)

	router.Route("/v1/plans", func(router chi.Router) {
		router.Post("/", app.InsertPlan)
		router.Get("/{id}", app.GetPlan)
		router.Patch("/{id}", app.UpdatePlan)
		router.Delete("/{id}", app.DeletePlan)
	})

	router.Route("/v1/matchlogs", func(router chi.Router) {
		router.Post("/", app.InsertMatchLog)
		router.Get("/{id}", app.GetMatchLog)
		router.Put("/{id}", app.UpdateMatchLog)
		router.Delete("/{id}", app.DeleteMatchLog)
	})

	router.Route("/v1/settings", func(router chi.Router) {
		router.Get("/", app.GetSettings)
		router.Put("/", app.UpdateSettings)
		router.Post("/technique-tags", app.AddTechniqueTag)
		router.Post("/motor-goals", app.AddMotorGoal)
		router.Post("/mental-goals", app.AddMentalGoal)
	})

	router.Get("/uploads/{file}", app.ServeDocument)

	return router
}
