package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/drehill/site-api/internal/application/auth"
	"github.com/drehill/site-api/internal/application/contact"
	fileapp "github.com/drehill/site-api/internal/application/file"
	"github.com/drehill/site-api/internal/application/post"
	"github.com/drehill/site-api/internal/config"
	"github.com/drehill/site-api/internal/domain"
	"github.com/drehill/site-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/drehill/site-api/internal/infrastructure/jwt"
	s3infra "github.com/drehill/site-api/internal/infrastructure/s3"
	"github.com/drehill/site-api/internal/infrastructure/smtp"
	"github.com/drehill/site-api/internal/infrastructure/sns"
	"github.com/drehill/site-api/internal/transport/http/handler"
	appmiddleware "github.com/drehill/site-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	PostRepo       *dynamo.PostRepo
	SubmissionRepo *dynamo.SubmissionRepo
	SubscriberRepo *dynamo.SubscriberRepo
	OTPStore       auth.OTPStore
	S3Store        *s3infra.Store
	Mailer         smtp.Mailer
	SMSSender      sns.SMSSender
	JWTProvider    *jwtinfra.Provider
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authMw := appmiddleware.Auth(deps.JWTProvider)
	adminOnly := appmiddleware.RequireRole(domain.RoleAdmin)

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	authSvc := auth.NewService(auth.ServiceDeps{
		Store:     deps.OTPStore,
		Mailer:    deps.Mailer,
		Signer:    deps.JWTProvider,
		Subject:   cfg.AdminEmail,
		OTPExpiry: cfg.OTPExpiry,
	})
	fileSvc := fileapp.NewService(deps.S3Store)
	postSvc := post.NewService(deps.PostRepo, deps.SubscriberRepo, deps.S3Store, deps.Mailer, cfg.SiteBaseURL)
	contactSvc := contact.NewService(contact.ServiceDeps{
		Submissions: deps.SubmissionRepo,
		Subscribers: deps.SubscriberRepo,
		Resumes:     deps.S3Store,
		Mailer:      deps.Mailer,
		SMSSender:   deps.SMSSender,
		AdminEmail:  cfg.AdminEmail,
		AdminPhone:  cfg.AdminPhone,
	})

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc)
	postH := handler.NewPostHandler(postSvc)
	uploadH := handler.NewUploadHandler(fileSvc)
	contactH := handler.NewContactHandler(contactSvc)

	// ── Public routes (no auth) ──────────────────────────────────────────
	r.Get("/", healthH.Root)
	r.Get("/health", healthH.Health)

	r.Route("/api/auth", func(r chi.Router) {
		r.With(sensitiveRL.Limit).Post("/send-otp", authH.SendOTP)
		r.With(sensitiveRL.Limit).Post("/verify-otp", authH.VerifyOTP)

		r.Group(func(r chi.Router) {
			r.Use(authMw, adminOnly)
			r.Get("/verify", authH.Verify)
		})
	})

	r.Route("/api/blog", func(r chi.Router) {
		r.Get("/posts/public", postH.ListPublic)
		r.Get("/posts/{slug}/public", postH.GetPublic)
		r.Get("/category/{category}", postH.ListByCategory)
		r.Get("/{slug}/related", postH.Related)
		r.Get("/uploads/*", uploadH.Serve)

		// ── Admin routes ─────────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw, adminOnly)

			r.Get("/posts", postH.List)
			r.Post("/posts", postH.Create)
			r.Get("/posts/{slug}", postH.Get)
			r.Put("/posts/{slug}", postH.Update)
			r.Delete("/posts/{identifier}", postH.Delete)
			r.Post("/upload-image", uploadH.UploadImage)
			r.Post("/upload-attachments", uploadH.UploadAttachments)
			r.Delete("/posts/{postID}/attachments/{attachmentID}", postH.DeleteAttachment)
			r.Post("/send-to-subscribers/{slug}", postH.SendToSubscribers)
		})
	})

	r.Route("/api/contact", func(r chi.Router) {
		r.With(sensitiveRL.Limit).Post("/submit-form", contactH.SubmitForm)
		r.With(sensitiveRL.Limit).Post("/submit-application", contactH.SubmitApplication)
		r.With(sensitiveRL.Limit).Post("/book-call", contactH.BookCall)
		r.With(sensitiveRL.Limit).Post("/subscribe", contactH.Subscribe)

		r.Group(func(r chi.Router) {
			r.Use(authMw, adminOnly)
			r.Get("/submissions", contactH.ListSubmissions)
		})
	})

	return r
}
