package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/warden/frontend"
	"github.com/secmon-lab/warden/pkg/usecase"
)

// UseCases bundles the use case dependencies of the HTTP server
type UseCases struct {
	Auth          *usecase.Auth
	Events        *usecase.Events
	Investigation *usecase.Investigation
	Hunts         *usecase.Hunts
	Inbox         *usecase.Inbox
	Calendar      *usecase.Calendar
	Users         *usecase.Users
	Audit         *usecase.Audit
	SOC           *usecase.SOC
}

// Server represents the HTTP server
type Server struct {
	*http.Server
	router chi.Router
}

// NewServer creates a new HTTP server with all console routes wired
func NewServer(ctx context.Context, addr string, uc *UseCases) *Server {
	router := chi.NewRouter()
	authMiddleware := NewMiddleware(uc.Auth)

	// Apply global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	authHandler := NewAuthHandler(uc.Auth)
	alertsHandler := NewAlertsHandler(uc.Events)
	casesHandler := NewCasesHandler(uc.Investigation)
	huntsHandler := NewHuntsHandler(uc.Hunts)
	inboxHandler := NewInboxHandler(uc.Inbox)
	calendarHandler := NewCalendarHandler(uc.Calendar)
	usersHandler := NewUsersHandler(uc.Users)
	socHandler := NewSOCHandler(uc.Audit, uc.SOC)

	// Health check
	router.Get("/health", handleHealth)

	router.Route("/api", func(r chi.Router) {
		// Auth routes (public)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.HandleLogin)
			r.Post("/register", authHandler.HandleRegister)
			r.Post("/verify", authHandler.HandleVerify)
			r.Post("/password-reset/request", authHandler.HandleResetRequest)
			r.Post("/password-reset/confirm", authHandler.HandleResetConfirm)
			r.Post("/logout", authHandler.HandleLogout)

			// Session-bound auth routes
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.RequireAuth)
				r.Get("/me", authHandler.HandleMe)
				r.Post("/password", authHandler.HandleChangePassword)
			})
		})

		// Console routes (protected)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.RequireAuth)

			r.Route("/alerts", func(r chi.Router) {
				r.Get("/", alertsHandler.HandleList)
				r.Post("/search", alertsHandler.HandleSearch)
				r.Post("/refresh", alertsHandler.HandleRefresh)
				r.Post("/ingest", alertsHandler.HandleIngest)
				r.Post("/translate", alertsHandler.HandleTranslate)
				r.Get("/{alertID}/explanation", alertsHandler.HandleExplanation)
			})

			r.Get("/behavioral", alertsHandler.HandleBehavioral)
			r.Get("/drones", alertsHandler.HandleDrones)

			r.Route("/cases", func(r chi.Router) {
				r.Get("/", casesHandler.HandleList)
				r.Post("/", casesHandler.HandleCreate)
				r.Post("/insights", casesHandler.HandleInsights)
				r.Route("/{caseID}", func(r chi.Router) {
					r.Get("/", casesHandler.HandleGet)
					r.Patch("/", casesHandler.HandleUpdate)
					r.Post("/timeline", casesHandler.HandleAddTimelineEvent)
					r.Post("/evidence", casesHandler.HandleAddEvidence)
					r.Post("/team", casesHandler.HandleAddTeamMember)
					r.Delete("/team/{userID}", casesHandler.HandleRemoveTeamMember)
					r.Post("/report", casesHandler.HandleReport)
				})
			})

			r.Route("/hunts", func(r chi.Router) {
				r.Get("/", huntsHandler.HandleList)
				r.Post("/", huntsHandler.HandleSave)
				r.Delete("/{huntID}", huntsHandler.HandleDelete)
				r.Post("/{huntID}/escalate", huntsHandler.HandleEscalate)
			})

			r.Route("/inbox", func(r chi.Router) {
				r.Get("/", inboxHandler.HandleList)
				r.Get("/unread", inboxHandler.HandleUnreadCount)
				r.Post("/{messageID}/read", inboxHandler.HandleMarkRead)
			})

			r.Route("/calendar", func(r chi.Router) {
				r.Get("/", calendarHandler.HandleList)
				r.Post("/", calendarHandler.HandleCreate)
			})

			r.Route("/sop", func(r chi.Router) {
				r.Get("/topics", socHandler.HandleSOPTopics)
				r.Post("/generate", socHandler.HandleGenerateSOP)
			})

			r.Route("/toolkit", func(r chi.Router) {
				r.Get("/tools", socHandler.HandleTools)
				r.Post("/run", socHandler.HandleRunTool)
				r.Post("/parse", socHandler.HandleParseToolReport)
			})

			// Admin routes (privileged)
			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.RequirePrivileged)

				r.Get("/logs", socHandler.HandleAuditLogs)

				r.Route("/users", func(r chi.Router) {
					r.Get("/", usersHandler.HandleList)
					r.Post("/", usersHandler.HandleCreate)
					r.Put("/{userID}/role", usersHandler.HandleSetRole)
					r.Put("/{userID}/status", usersHandler.HandleSetStatus)
					r.Put("/{userID}/department", usersHandler.HandleSetDepartment)
					r.Put("/{userID}/password", usersHandler.HandleResetPassword)
				})
			})
		})
	})

	// Console routes (serve embedded or fallback)
	fs, err := frontend.GetHTTPFS()
	if err != nil {
		ctxlog.From(ctx).Warn("Failed to get embedded console, using fallback",
			"error", err,
		)
		router.Get("/*", handleFallbackHome)
	} else {
		ctxlog.From(ctx).Info("Serving console from embedded files")
		fileServer := http.FileServer(fs)
		router.Handle("/*", fileServer)
	}

	return &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
		router: router,
	}
}

// handleHealth handles health check requests
func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "warden",
	}); err != nil {
		ctxlog.From(r.Context()).Error("Failed to encode health response", "error", err)
	}
}

// handleFallbackHome handles the root path when the console bundle is not available
func handleFallbackHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <title>Warden</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
            display: flex;
            justify-content: center;
            align-items: center;
            height: 100vh;
            margin: 0;
            background: linear-gradient(135deg, #0f2027 0%, #203a43 50%, #2c5364 100%);
            color: white;
        }
        .container {
            text-align: center;
            padding: 2rem;
            background: rgba(255, 255, 255, 0.1);
            border-radius: 10px;
            backdrop-filter: blur(10px);
        }
        h1 {
            margin: 0 0 1rem 0;
            font-size: 3rem;
        }
        p {
            margin: 0.5rem 0;
            font-size: 1.2rem;
        }
    </style>
</head>
<body>
    <div class="container">
        <h1>&#128737; Warden</h1>
        <p>Security Operations Console</p>
        <p>The web console bundle is not built. The JSON API is available under /api.</p>
    </div>
</body>
</html>`)); err != nil {
		ctxlog.From(r.Context()).Error("Failed to write fallback home page", "error", err)
	}
}
