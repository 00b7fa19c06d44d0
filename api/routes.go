package api

import (
	"github.com/gorilla/mux"

	"github.com/anandk/placement/internal/cache"
	"github.com/anandk/placement/internal/config"
	"github.com/anandk/placement/internal/profile"
	"github.com/anandk/placement/internal/reports"
	"github.com/anandk/placement/internal/repository/sqlite"
	"github.com/anandk/placement/internal/session"
	"github.com/anandk/placement/internal/workflow"
	"github.com/anandk/placement/pkg/models"
)

// Deps bundles the constructed collaborators the HTTP surface wires into its
// handlers. The caller owns their lifecycles.
type Deps struct {
	Store     *sqlite.Repo
	Engine    *workflow.Engine
	Sessions  *session.Manager
	Validator *profile.Validator
	Reports   *reports.Generator
	Companies *cache.Companies
}

func SetupRoutes(cfg *config.Config, version, buildTime string, deps Deps) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(deps.Store, deps.Sessions, cfg.JWTSecret, cfg.TokenDuration)
	companiesHandler := NewCompaniesHandler(deps.Store, deps.Engine, deps.Companies)
	applicationsHandler := NewApplicationsHandler(deps.Engine, deps.Store, deps.Store)
	interviewsHandler := NewInterviewsHandler(deps.Engine, deps.Store)
	documentsHandler := NewDocumentsHandler(deps.Store, deps.Store)
	notificationsHandler := NewNotificationsHandler(deps.Store)
	alumniHandler := NewAlumniHandler(deps.Store)
	profileHandler := NewProfileHandler(deps.Store, deps.Validator)
	reportsHandler := NewReportsHandler(deps.Reports, deps.Store)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/v1/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/v1/auth/signin", authHandler.Signin).Methods("POST")

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	// Auth endpoints
	authV1 := apiV1.PathPrefix("/auth").Subrouter()
	authV1.HandleFunc("/signout", authHandler.Signout).Methods("POST")
	authV1.HandleFunc("/me", authHandler.Me).Methods("GET")

	// Company endpoints readable by every signed-in role
	apiV1.HandleFunc("/companies", companiesHandler.ListActive).Methods("GET")
	apiV1.HandleFunc("/companies/search", companiesHandler.Search).Methods("GET")
	apiV1.HandleFunc("/companies/{id:[0-9]+}", companiesHandler.Get).Methods("GET")

	// Notifications for the signed-in user
	apiV1.HandleFunc("/notifications", notificationsHandler.Mine).Methods("GET")
	apiV1.HandleFunc("/notifications", notificationsHandler.Clear).Methods("DELETE")
	apiV1.HandleFunc("/notifications/unread", notificationsHandler.UnreadCount).Methods("GET")
	apiV1.HandleFunc("/notifications/read-all", notificationsHandler.MarkAllRead).Methods("POST")
	apiV1.HandleFunc("/notifications/{id:[0-9]+}/read", notificationsHandler.MarkRead).Methods("POST")

	// Alumni directory is readable by everyone signed in
	apiV1.HandleFunc("/alumni", alumniHandler.Directory).Methods("GET")

	// Student endpoints
	studentV1 := apiV1.PathPrefix("").Subrouter()
	studentV1.Use(RequireRole(models.RoleStudent))
	studentV1.HandleFunc("/companies/eligible", companiesHandler.Eligible).Methods("GET")
	studentV1.HandleFunc("/applications", applicationsHandler.Apply).Methods("POST")
	studentV1.HandleFunc("/applications/mine", applicationsHandler.Mine).Methods("GET")
	studentV1.HandleFunc("/applications/{id:[0-9]+}/withdraw", applicationsHandler.Withdraw).Methods("POST")
	studentV1.HandleFunc("/interviews/mine", interviewsHandler.Mine).Methods("GET")
	studentV1.HandleFunc("/profile", profileHandler.Update).Methods("PUT")
	studentV1.HandleFunc("/resumes", documentsHandler.UploadResume).Methods("POST")
	studentV1.HandleFunc("/resumes", documentsHandler.MyResumes).Methods("GET")
	studentV1.HandleFunc("/resumes/{id:[0-9]+}/primary", documentsHandler.SetPrimaryResume).Methods("POST")
	studentV1.HandleFunc("/resumes/{id:[0-9]+}", documentsHandler.DeleteResume).Methods("DELETE")
	studentV1.HandleFunc("/documents", documentsHandler.UploadDocument).Methods("POST")
	studentV1.HandleFunc("/documents", documentsHandler.MyDocuments).Methods("GET")
	studentV1.HandleFunc("/alumni/register", alumniHandler.Register).Methods("POST")
	studentV1.HandleFunc("/alumni/mine", alumniHandler.Mine).Methods("GET")

	// HOD endpoints
	hodV1 := apiV1.PathPrefix("/hod").Subrouter()
	hodV1.Use(RequireRole(models.RoleHOD))
	hodV1.HandleFunc("/applications/pending", applicationsHandler.PendingHOD).Methods("GET")
	hodV1.HandleFunc("/applications/{id:[0-9]+}/approval", applicationsHandler.HODApproval).Methods("POST")

	// TPO endpoints
	tpoV1 := apiV1.PathPrefix("/tpo").Subrouter()
	tpoV1.Use(RequireRole(models.RoleTPO))
	tpoV1.HandleFunc("/companies", companiesHandler.Create).Methods("POST")
	tpoV1.HandleFunc("/companies/all", companiesHandler.ListAll).Methods("GET")
	tpoV1.HandleFunc("/companies/{id:[0-9]+}", companiesHandler.Update).Methods("PUT")
	tpoV1.HandleFunc("/companies/{id:[0-9]+}", companiesHandler.Delete).Methods("DELETE")
	tpoV1.HandleFunc("/companies/{id:[0-9]+}/deactivate", companiesHandler.Deactivate).Methods("POST")
	tpoV1.HandleFunc("/companies/{id:[0-9]+}/applications", applicationsHandler.ByCompany).Methods("GET")
	tpoV1.HandleFunc("/applications/{id:[0-9]+}/approval", applicationsHandler.TPOApproval).Methods("POST")
	tpoV1.HandleFunc("/applications/{id:[0-9]+}/status", applicationsHandler.UpdateStatus).Methods("POST")
	tpoV1.HandleFunc("/interviews", interviewsHandler.Schedule).Methods("POST")
	tpoV1.HandleFunc("/interviews/calendar", interviewsHandler.Calendar).Methods("GET")
	tpoV1.HandleFunc("/interviews/{id:[0-9]+}/status", interviewsHandler.UpdateStatus).Methods("POST")
	tpoV1.HandleFunc("/interviews/{id:[0-9]+}", interviewsHandler.Delete).Methods("DELETE")
	tpoV1.HandleFunc("/alumni/{id:[0-9]+}/verify", alumniHandler.Verify).Methods("POST")
	tpoV1.HandleFunc("/reports/{type}", reportsHandler.Generate).Methods("POST")

	// Review endpoints shared by HOD and TPO
	reviewV1 := apiV1.PathPrefix("/review").Subrouter()
	reviewV1.Use(RequireRole(models.RoleHOD, models.RoleTPO))
	reviewV1.HandleFunc("/documents/pending", documentsHandler.PendingDocuments).Methods("GET")
	reviewV1.HandleFunc("/documents/{id:[0-9]+}/verify", documentsHandler.VerifyDocument).Methods("POST")
	reviewV1.HandleFunc("/interviews/{id:[0-9]+}", interviewsHandler.ByApplication).Methods("GET")
	reviewV1.HandleFunc("/stats", reportsHandler.Stats).Methods("GET")

	return r
}
