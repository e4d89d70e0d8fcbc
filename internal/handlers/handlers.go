package handlers

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"ClinicDesk/internal/config"
	"ClinicDesk/internal/middleware"
	"ClinicDesk/internal/service"
)

type Handler struct {
	Router  chi.Router
	Limiter *middleware.RateLimiter
}

// NewHandler разводящий для хендлеров
func NewHandler(
	userService *service.UserService,
	clinicService *service.ClinicService,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithMetrics)
	r.Use(middleware.WithAuth(config.AuthSecret))

	limiter := middleware.NewRateLimiter(config.AuthRPS, config.AuthBurst)

	// Handlers
	authHandler := NewAuthHandler(userService, logger, config)
	clinicHandler := NewClinicHandler(clinicService, logger)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// Auth routes (public)
		r.Route("/Auth", func(r chi.Router) {
			r.Use(limiter.Handler)
			r.Get("/", authHandler.Countries)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/forgot-password", authHandler.ForgotPassword)
			r.Post("/reset-password", authHandler.ResetPassword)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/Doctor", clinicHandler.ListDoctors)
			r.Post("/Doctor", clinicHandler.CreateDoctor)
			r.Get("/Doctor/{id}", clinicHandler.GetDoctor)
			r.Put("/Doctor/{id}", clinicHandler.UpdateDoctor)
			r.Delete("/Doctor/{id}", clinicHandler.DeleteDoctor)

			r.Post("/Appointment/book", clinicHandler.BookAppointment)
			r.Get("/Appointment/list", clinicHandler.ListAppointments)
			r.Put("/Appointment/{id}", clinicHandler.UpdateAppointment)
			r.Delete("/Appointment/cancel/{id}", clinicHandler.CancelAppointment)

			r.Post("/Prescription", clinicHandler.CreatePrescription)
			r.Get("/Prescription/appointment/{id}", clinicHandler.PrescriptionsByAppointment)
			r.Get("/Prescription/download/{id}", clinicHandler.DownloadPrescription)

			r.Get("/Invoice", clinicHandler.ListInvoices)
			r.Post("/Invoice", clinicHandler.CreateInvoice)
			r.Get("/Invoice/appointment/{id}", clinicHandler.InvoiceByAppointment)
			r.Get("/Invoice/download/{id}", clinicHandler.DownloadInvoice)

			r.Get("/OPForm", clinicHandler.ListOPForms)
			r.Post("/OPForm", clinicHandler.CreateOPForm)
			r.Get("/OPForm/{id}", clinicHandler.GetOPForm)
			r.Get("/OPForm/appointment/{id}", clinicHandler.OPFormByAppointment)
			r.Get("/OPForm/download/{id}", clinicHandler.DownloadOPForm)

			r.Get("/Dashboard/summary", clinicHandler.Dashboard)
		})
	})

	return &Handler{Router: r, Limiter: limiter}
}
