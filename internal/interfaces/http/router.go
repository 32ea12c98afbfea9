package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/invoice-studio-api/internal/application/analytics"
	"github.com/jhoicas/invoice-studio-api/internal/application/auth"
	"github.com/jhoicas/invoice-studio-api/internal/application/notifications"
	"github.com/jhoicas/invoice-studio-api/internal/application/profile"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	Invoices      InvoiceService
	Delivery      DeliveryService
	Editor        EditorService
	Drafts        DraftStore
	Profiles      *profile.Service
	Notifications *notifications.Service
	Dashboard     *appanalytics.DashboardUseCase
	RateLimiter   *UserRateLimiter // nil = sin límite
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)

	// Rutas protegidas (requieren Bearer Token)
	mw := []fiber.Handler{AuthMiddleware(deps.JWTSecret)}
	if deps.RateLimiter != nil {
		mw = append(mw, deps.RateLimiter.Middleware())
	}
	protected := api.Group("/", mw...)

	// Borradores y personalización de sesión
	draftHandler := NewDraftHandler(deps.Drafts)
	protected.Get("/drafts/:template", draftHandler.GetDraft)
	protected.Put("/drafts/:template", draftHandler.SaveDraft)
	protected.Delete("/drafts/:template", draftHandler.ClearDraft)
	protected.Get("/template-settings/:template", draftHandler.GetSettings)
	protected.Put("/template-settings/:template", draftHandler.SaveSettings)

	// Editor
	editorHandler := NewEditorHandler(deps.Editor)
	protected.Get("/editor/:template", editorHandler.Open)
	protected.Post("/editor/:template", editorHandler.Open)

	// Invoices
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.Invoices, deps.Delivery)
	invoices.Post("/calculate", invoiceHandler.Calculate)
	invoices.Post("/", invoiceHandler.Save)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/export.xlsx", invoiceHandler.Export)
	invoices.Get("/:number", invoiceHandler.Get)
	invoices.Patch("/:number/status", invoiceHandler.UpdateStatus)
	invoices.Get("/:number/preview", invoiceHandler.Preview)
	invoices.Get("/:number/pdf", invoiceHandler.PDF)

	// PDF y correo
	deliveryHandler := NewDeliveryHandler(deps.Delivery)
	protected.Post("/pdf", deliveryHandler.PDF)
	protected.Post("/email/send-invoice", deliveryHandler.SendInvoice)

	// Perfil
	profileHandler := NewProfileHandler(deps.Profiles)
	protected.Get("/profile", profileHandler.Get)
	protected.Put("/profile", profileHandler.Update)
	protected.Post("/profile/payment-methods", profileHandler.AddPaymentMethod)
	protected.Delete("/profile/payment-methods/:id", profileHandler.RemovePaymentMethod)

	// Notificaciones
	notificationHandler := NewNotificationHandler(deps.Notifications)
	protected.Get("/notifications", notificationHandler.List)
	protected.Post("/notifications/read-all", notificationHandler.MarkAllRead)
	protected.Post("/notifications/:id/read", notificationHandler.MarkRead)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.Dashboard)
	protected.Get("/dashboard", dashboardHandler.GetSummary)
}
