package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"leadengine/internal/http/middleware"
	"leadengine/internal/service"
)

// Services groups the use-case dependencies injected into the router.
type Services struct {
	Auth      service.AuthService
	Leads     service.LeadService
	Members   service.MemberService
	Campaigns service.CampaignService
	Analytics service.AnalyticsService
	Billing   service.BillingService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Handlers
// stay thin; business rules live in the service layer.
func RegisterRoutes(app *fiber.App, db *sql.DB, svcs Services, webhookSecret string, promReg *prometheus.Registry) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())
	if promReg != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(promReg, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")

	// Public auth endpoints
	authGroup := api.Group("/auth")
	authGroup.Post("/signup", Signup(svcs.Auth))
	authGroup.Post("/login", Login(svcs.Auth))

	// Billing webhook authenticates by body signature, not bearer token
	api.Post("/billing/webhook", BillingWebhook(svcs.Billing, webhookSecret))

	// Everything registered below requires a valid bearer token
	authed := api.Use(middleware.RequireAuth(svcs.Auth))

	authGroup.Get("/me", Me())
	authGroup.Put("/me", UpdateMe(svcs.Auth))
	authGroup.Post("/verify-token", VerifyToken())
	authGroup.Post("/logout", Logout())

	authed.Get("/leads", ListLeads(svcs.Leads))
	authed.Post("/leads", CreateLead(svcs.Leads))
	authed.Post("/leads/import", ImportLeads(svcs.Leads))
	authed.Post("/leads/export", ExportLeads(svcs.Leads))
	authed.Get("/leads/:id", GetLead(svcs.Leads))
	authed.Put("/leads/:id", UpdateLead(svcs.Leads))
	authed.Delete("/leads/:id", DeleteLead(svcs.Leads))

	authed.Get("/members", ListMembers(svcs.Members))
	authed.Post("/members/sync", SyncMembers(svcs.Members))
	authed.Get("/members/churn", ChurnSummary(svcs.Members))
	authed.Post("/members/retention", SendRetentionBatch(svcs.Members))
	authed.Post("/members/:id/retention", SendRetention(svcs.Members))
	authed.Get("/members/:id/retention", ListRetentionMessages(svcs.Members))

	authed.Get("/campaigns", ListCampaigns(svcs.Campaigns))
	authed.Post("/campaigns", CreateCampaign(svcs.Campaigns))
	authed.Get("/campaigns/:id", GetCampaign(svcs.Campaigns))
	authed.Get("/campaigns/:id/messages", ListCampaignMessages(svcs.Campaigns))
	authed.Post("/campaigns/:id/send", SendCampaign(svcs.Campaigns))
	authed.Post("/messages/:id/track", TrackMessage(svcs.Campaigns))

	authed.Get("/analytics/dashboard", DashboardStats(svcs.Analytics))
}
