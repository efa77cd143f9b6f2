package server

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"atelier/internal/db"
	"atelier/internal/handlers"
	"atelier/internal/handlers/api"
	"atelier/internal/middleware"
)

// RegisterRoutes registers all application routes.
func (s *Server) RegisterRoutes(ctx context.Context, database *db.DB) error {
	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(database)

	// Initialize handlers
	catalogHandler := handlers.NewCatalogHandler(database, s.Cfg)
	portalHandler := handlers.NewPortalHandler(database, s.Cfg)
	probeHandler := handlers.NewProbeHandler(database)

	serviceHandler := api.NewServiceHandler(database)
	clientHandler := api.NewClientHandler(database)
	materialHandler := api.NewMaterialHandler(database)
	accountHandler := api.NewAccountHandler(database)
	shareLinkHandler := api.NewShareLinkHandler(database, s.Cfg)
	approvalHandler := api.NewApprovalHandler(database)
	userHandler := api.NewUserHandler(database)

	// Auth routes - OIDC is always required for operator access
	if s.Cfg.OIDCIssuer == "" {
		log.Fatal("OIDC_ISSUER is required. All operators must be authenticated.")
	}

	authHandler, err := handlers.NewAuthHandler(ctx, s.Cfg, database)
	if err != nil {
		return err
	}

	s.App.Get("/auth/login", authHandler.Login)
	s.App.Get("/auth/callback", authHandler.Callback)
	s.App.Get("/auth/logout", authHandler.Logout)

	// Operator landing page; also where the OIDC callback sends fresh logins.
	s.App.Get("/", authMiddleware.RequireAuth, func(c fiber.Ctx) error {
		return c.Render("home", fiber.Map{
			"Title":     "Console",
			"SiteTitle": s.Cfg.SiteTitle,
			"User":      c.Locals("user"),
		})
	})

	s.App.Get("/login", func(c fiber.Ctx) error {
		return c.Render("login", fiber.Map{
			"Title":     "Sign in",
			"SiteTitle": s.Cfg.SiteTitle,
		})
	})

	// Public token routes. No operator auth; the token is the credential,
	// and the client portal adds its own login on top.
	s.App.Get("/services/:token", catalogHandler.Show)
	s.App.Get("/client-materials/:token", portalHandler.Show)
	s.App.Post("/client-materials/:token/login", portalHandler.Login)
	s.App.Post("/client-materials/:token/logout", portalHandler.Logout)
	s.App.Post("/client-materials/:token/materials/:id/actions", portalHandler.Act)

	// Probes and metrics
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Operator API
	apiGroup := s.App.Group("/api", authMiddleware.RequireAPIAuth)

	apiGroup.Get("/services", serviceHandler.List)
	apiGroup.Post("/services", serviceHandler.Create)
	apiGroup.Get("/services/:id", serviceHandler.Get)
	apiGroup.Put("/services/:id", serviceHandler.Update)
	apiGroup.Delete("/services/:id", serviceHandler.Delete)

	apiGroup.Get("/clients", clientHandler.List)
	apiGroup.Post("/clients", clientHandler.Create)
	apiGroup.Get("/clients/:id", clientHandler.Get)
	apiGroup.Put("/clients/:id", clientHandler.Update)
	apiGroup.Delete("/clients/:id", clientHandler.Delete)

	apiGroup.Get("/clients/:id/materials", materialHandler.ListByClient)
	apiGroup.Post("/clients/:id/materials", materialHandler.Create)
	apiGroup.Get("/materials/:id", materialHandler.Get)
	apiGroup.Put("/materials/:id", materialHandler.Update)
	apiGroup.Patch("/materials/:id/status", materialHandler.SetStatus)
	apiGroup.Delete("/materials/:id", materialHandler.Delete)
	apiGroup.Get("/materials/:id/approvals", materialHandler.Approvals)

	apiGroup.Post("/accounts", accountHandler.Create)
	apiGroup.Get("/accounts/:id", accountHandler.Get)
	apiGroup.Patch("/accounts/:id/active", accountHandler.SetActive)
	apiGroup.Get("/clients/:id/members", accountHandler.Members)
	apiGroup.Post("/clients/:id/members", accountHandler.AddMember)
	apiGroup.Delete("/clients/:id/members/:accountId", accountHandler.RemoveMember)

	apiGroup.Get("/service-links", shareLinkHandler.ListServiceLinks)
	apiGroup.Post("/service-links", shareLinkHandler.CreateServiceLink)
	apiGroup.Get("/service-links/:id", shareLinkHandler.GetServiceLink)
	apiGroup.Put("/service-links/:id", shareLinkHandler.UpdateServiceLink)
	apiGroup.Put("/service-links/:id/items", shareLinkHandler.ReplaceServiceLinkItems)
	apiGroup.Patch("/service-links/:id/active", shareLinkHandler.SetServiceLinkActive)
	apiGroup.Delete("/service-links/:id", shareLinkHandler.DeleteServiceLink)

	apiGroup.Get("/client-links", shareLinkHandler.ListClientLinks)
	apiGroup.Post("/client-links", shareLinkHandler.CreateClientLink)
	apiGroup.Get("/client-links/:id", shareLinkHandler.GetClientLink)
	apiGroup.Put("/client-links/:id", shareLinkHandler.UpdateClientLink)
	apiGroup.Patch("/client-links/:id/active", shareLinkHandler.SetClientLinkActive)
	apiGroup.Delete("/client-links/:id", shareLinkHandler.DeleteClientLink)

	apiGroup.Get("/approvals", approvalHandler.Feed)
	apiGroup.Get("/token-lookups", approvalHandler.TokenLookups)

	// Admin routes
	adminGroup := apiGroup.Group("/users", authMiddleware.RequireAdmin)
	adminGroup.Get("/", userHandler.List)
	adminGroup.Post("/:id/role", userHandler.UpdateRole)
	adminGroup.Delete("/:id", userHandler.Delete)

	return nil
}
