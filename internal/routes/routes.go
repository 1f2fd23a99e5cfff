package routes

import (
	"net/http"

	"github.com/carebook/carebook/internal/app"
	"github.com/carebook/carebook/internal/handler"
	"github.com/carebook/carebook/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	status := handler.NewStatusHandler(app.Store, app.Assist.Configured(), app.Files != nil)
	weight := handler.NewWeightHandler(app.Services.Weights)
	sleep := handler.NewSleepHandler(app.Services.Sleeps)
	meal := handler.NewMealHandler(app.Services.Meals)
	workout := handler.NewWorkoutHandler(app.Services.Workouts)
	day := handler.NewDayHandler(app.Services.Days)
	journal := handler.NewJournalHandler(app.Services.Journal)
	assist := handler.NewAssistHandler(app.Services.Assist)
	admin := handler.NewAdminHandler(app.Store.Admin)

	mux := http.NewServeMux()

	// Status
	mux.HandleFunc("GET /api/status", status.Status)

	// Weight (one record per day)
	mux.HandleFunc("GET /api/weight", weight.Get)
	mux.HandleFunc("POST /api/weight", weight.Save)
	mux.HandleFunc("DELETE /api/weight", weight.Delete)

	// Sleep (one record per wake-up day)
	mux.HandleFunc("GET /api/sleep", sleep.Get)
	mux.HandleFunc("POST /api/sleep", sleep.Save)
	mux.HandleFunc("DELETE /api/sleep", sleep.Delete)

	// Meals (many per day)
	mux.HandleFunc("GET /api/meals", meal.List)
	mux.HandleFunc("POST /api/meals", meal.Add)
	mux.HandleFunc("PATCH /api/meals/{id}", meal.Update)
	mux.HandleFunc("DELETE /api/meals/{id}", meal.Delete)

	// Workouts (many per day)
	mux.HandleFunc("GET /api/workouts", workout.List)
	mux.HandleFunc("POST /api/workouts", workout.Add)
	mux.HandleFunc("PATCH /api/workouts/{id}", workout.Update)
	mux.HandleFunc("DELETE /api/workouts/{id}", workout.Delete)

	// Days (calendar + per-day summary)
	mux.HandleFunc("GET /api/days", day.List)
	mux.HandleFunc("GET /api/days/{dayKey}", day.Summary)

	// Journal
	mux.HandleFunc("GET /api/journal", journal.List)
	mux.HandleFunc("POST /api/journal", journal.Create)
	mux.HandleFunc("GET /api/journal/{id}", journal.Get)
	mux.HandleFunc("PATCH /api/journal/{id}", journal.Update)
	mux.HandleFunc("DELETE /api/journal/{id}", journal.Delete)
	mux.HandleFunc("POST /api/journal/presign", journal.Presign)
	mux.HandleFunc("GET /api/journal/attachment", journal.Attachment)

	// AI assist (rate limited; fans out to a paid upstream)
	rateLimiter := middleware.RateLimitAssist()
	mux.HandleFunc("POST /api/assist/meal", rateLimiter(assist.SuggestMeal))
	mux.HandleFunc("POST /api/assist/workout", rateLimiter(assist.SuggestWorkout))

	// Admin data browser (token guarded when ADMIN_TOKEN is set)
	adminToken := middleware.AdminToken(app.Cfg.AdminToken)
	mux.HandleFunc("GET /admin/tables", adminToken(admin.Tables))
	mux.HandleFunc("GET /admin/tables/{table}", adminToken(admin.Table))
	mux.HandleFunc("GET /admin/tables/{table}/{id}", adminToken(admin.Row))

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.RequestLogging,
	)
}
