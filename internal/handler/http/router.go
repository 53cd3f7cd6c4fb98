package http

import (
	"log/slog"

	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/handler/http/middleware"
	"github.com/cmlabs-hris/smallbiz-hr-backend/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// Handlers groups every HTTP handler mounted by NewRouter.
type Handlers struct {
	Employee     EmployeeHandler
	Schedule     ScheduleHandler
	TimeClock    TimeClockHandler
	TimeOff      TimeOffHandler
	Payroll      PayrollHandler
	Notification NotificationHandler
}

type RouterOptions struct {
	AllowedOrigins []string
	LogLevel       slog.Level
}

func NewRouter(logger *slog.Logger, jwtService jwt.Service, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// EventSource cannot send headers; the stream authenticates with its own query token.
		r.Get("/notifications/stream", h.Notification.Stream)

		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Get("/notifications/stream-token", h.Notification.GetStreamToken)

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", h.Employee.List)
				r.Get("/{id}", h.Employee.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/", h.Employee.Create)
					r.Patch("/{id}/rate", h.Employee.UpdateRate)
				})

				r.With(middleware.RequireOwner).Post("/{id}/deactivate", h.Employee.Deactivate)
			})

			r.Route("/schedules", func(r chi.Router) {
				r.Get("/", h.Schedule.List)
				r.Get("/weekly-hours", h.Schedule.WeeklyHours)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/", h.Schedule.Create)
					r.Patch("/{id}/status", h.Schedule.UpdateStatus)
				})
			})

			r.Route("/timeclock", func(r chi.Router) {
				r.Post("/clock-in", h.TimeClock.ClockIn)
				r.Post("/clock-out", h.TimeClock.ClockOut)
				r.Get("/active", h.TimeClock.Active)
				r.Get("/sessions", h.TimeClock.ListSessions)
			})

			r.Route("/time-off", func(r chi.Router) {
				r.Get("/", h.TimeOff.List)
				r.Post("/", h.TimeOff.Create)
				r.Get("/{id}", h.TimeOff.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Post("/bulk-approve", h.TimeOff.BulkApprove)
					r.Post("/{id}/approve", h.TimeOff.Approve)
					r.Post("/{id}/deny", h.TimeOff.Deny)
				})
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/entries", h.Payroll.ListEntries)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManager)
					r.Get("/periods", h.Payroll.ListPeriods)
					r.Post("/periods/ensure", h.Payroll.EnsurePeriods)
					r.Get("/periods/{id}/export", h.Payroll.ExportPeriod)
					r.Get("/summary", h.Payroll.Summary)
				})

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireOwner)
					r.Post("/periods/advance", h.Payroll.AdvancePeriods)
					r.Post("/periods/{id}/close", h.Payroll.ClosePeriod)
					r.Patch("/entries/{id}/status", h.Payroll.AdvanceEntry)
				})
			})
		})
	})
	return r
}
