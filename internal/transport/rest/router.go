package rest

import (
	"log/slog"
	"net/http"

	"github.com/campusworks/complaint-management/internal/auth"
	"github.com/campusworks/complaint-management/internal/complaint"
	"github.com/campusworks/complaint-management/internal/department"
	"github.com/campusworks/complaint-management/internal/stats"
	"github.com/campusworks/complaint-management/internal/transport/middleware"
	"github.com/campusworks/complaint-management/internal/transport/swagger"
	"github.com/campusworks/complaint-management/internal/user"
	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
)

func RegisterAllRoutes(
	router *chi.Mux,
	db *sqlx.DB,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	complaintHandler *complaint.Handler,
	statsHandler *stats.Handler,
	departmentHandler *department.Handler,
	rbac *auth.RBACAuthorization,
	uploadsDir string,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)

	// Global middleware
	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// OpenAPI document and Swagger UI live at the server root
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	// Complaint photos are stored on disk and referenced by relative path
	router.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadsDir))))

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", authHandler.Login)
			sr.Post("/logout", authHandler.Logout)
		})

		// Department enumerations are public so login/complaint forms can
		// be populated before authentication.
		r.Get("/departments", departmentHandler.GetDepartments)

		// Everything below requires a valid token.
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			pr.Get("/users/me", userHandler.GetCurrentUser)

			pr.Route("/complaints", func(cr chi.Router) {
				cr.Get("/", complaintHandler.ListComplaints)
				cr.Get("/{id}", complaintHandler.GetComplaint)

				cr.Group(func(fr chi.Router) {
					fr.Use(rbac.RequireFaculty())
					fr.Post("/", complaintHandler.CreateComplaint)
				})

				cr.Group(func(mr chi.Router) {
					mr.Use(rbac.RequireMaintenance())
					mr.Patch("/{id}/status", complaintHandler.UpdateComplaint)
				})
			})

			pr.Route("/stats", func(ar chi.Router) {
				ar.Use(rbac.RequireAdmin())
				ar.Get("/dashboard", statsHandler.Dashboard)
				ar.Get("/by-department", statsHandler.ByDepartment)
				ar.Get("/by-status", statsHandler.ByStatus)
				ar.Get("/by-faculty-department", statsHandler.ByFacultyDepartment)
			})

			pr.Route("/users", func(ur chi.Router) {
				ur.Use(rbac.RequireSuperAdmin())
				ur.Get("/", userHandler.ListUsers)
				ur.Post("/", userHandler.CreateUser)
				ur.Post("/{id}/reset-password", userHandler.ResetPassword)
				ur.Delete("/{id}", userHandler.DeleteUser)
			})
		})
	})
}
