package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/claim-management/internal/auth"
	"github.com/frahmantamala/claim-management/internal/claim"
	"github.com/frahmantamala/claim-management/internal/report"
	"github.com/frahmantamala/claim-management/internal/transport/middleware"
	"github.com/frahmantamala/claim-management/internal/transport/swagger"
	"github.com/frahmantamala/claim-management/internal/user"
	"github.com/go-chi/chi"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, rbac *auth.RBACAuthorization, userHandler *user.Handler, claimHandler *claim.Handler, reportHandler *report.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", authHandler.Login)
				sr.Post("/refresh", authHandler.RefreshToken)
				sr.Post("/logout", authHandler.Logout)
			})
		}

		if authHandler != nil {
			// Protected routes that require authentication
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)

				// Current user
				if userHandler != nil {
					pr.Get("/users/me", userHandler.GetCurrentUser)
				}

				// Claim routes
				if claimHandler != nil {
					pr.Route("/claims", func(cr chi.Router) {
						// Lecturer routes
						cr.Post("/", claimHandler.CreateClaim)                // POST /claims
						cr.Get("/", claimHandler.MyClaims)                    // GET /claims
						cr.Get("/{id}", claimHandler.GetClaim)                // GET /claims/:id
						cr.Get("/{id}/document", claimHandler.DownloadDocument) // GET /claims/:id/document

						// Reviewer routes with permission protection
						cr.Group(func(rr chi.Router) {
							rr.Use(rbac.RequireReviewer())
							rr.Get("/review-queue", claimHandler.ReviewQueue) // GET /claims/review-queue
						})

						cr.Group(func(rr chi.Router) {
							rr.Use(rbac.RequireApproveClaim())
							rr.Patch("/{id}/approve", claimHandler.ApproveClaim) // PATCH /claims/:id/approve
						})

						cr.Group(func(rr chi.Router) {
							rr.Use(rbac.RequireRejectClaim())
							rr.Patch("/{id}/reject", claimHandler.RejectClaim) // PATCH /claims/:id/reject
						})

						cr.Group(func(rr chi.Router) {
							rr.Use(rbac.RequireAdmin())
							rr.Get("/all", claimHandler.AllClaims) // GET /claims/all
						})
					})
				}

				// Report routes (requires export_reports permission)
				if reportHandler != nil {
					pr.Route("/reports", func(rr chi.Router) {
						rr.Use(rbac.RequireExportReports())
						rr.Get("/summary", reportHandler.Summary)       // GET /reports/summary
						rr.Get("/claims.csv", reportHandler.ExportCSV)  // GET /reports/claims.csv
						rr.Get("/claims.pdf", reportHandler.ExportPDF)  // GET /reports/claims.pdf
						rr.Get("/claims.xlsx", reportHandler.ExportXLSX) // GET /reports/claims.xlsx
					})
				}

				// User management (requires manage_users permission)
				if userHandler != nil {
					pr.Route("/users", func(ur chi.Router) {
						ur.Use(rbac.RequireManageUsers())
						ur.Get("/", userHandler.ListUsers)              // GET /users
						ur.Post("/", userHandler.CreateUser)            // POST /users
						ur.Patch("/{id}", userHandler.UpdateUser)       // PATCH /users/:id
						ur.Delete("/{id}", userHandler.DeactivateUser)  // DELETE /users/:id
					})
				}
			})
		}
	})
}
