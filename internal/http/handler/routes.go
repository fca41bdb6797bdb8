package handler

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"

	"rentalapi/docs"
	"rentalapi/internal/auth"
	"rentalapi/internal/http/middleware"
	"rentalapi/internal/service"
)

// Dependencies are the collaborators the routes are served by.
type Dependencies struct {
	DB            Pinger
	Payments      service.PaymentService
	Contracts     service.ContractService
	Reports       service.ReportService
	Tenants       service.TenantService
	Apartments    service.ApartmentService
	PaymentStates service.PaymentStateService
	PaymentTypes  service.PaymentTypeService
	Users         service.UserService
	Auth          service.AuthService
	Spool         FileSpooler

	// Verifier always guards /api/users, and every other /api group when
	// RequireAuth is set. With a nil Verifier guarded routes answer 401.
	Verifier    auth.Verifier
	RequireAuth bool

	// Uploads, when set, is served read-only under /uploads.
	Uploads afero.Fs

	// Metrics, when set, is exposed at /metrics.
	Metrics prometheus.Gatherer
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Fixed paths
// are registered before their /:id siblings.
func RegisterRoutes(app *fiber.App, d Dependencies) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("API Alquileres - funcionando")
	})
	app.Get("/healthz", LivenessProbe())
	if d.Metrics != nil {
		app.Get(middleware.MetricsPath, middleware.MetricsHandler(d.Metrics))
	}
	if d.Uploads != nil {
		app.Use("/uploads", noSniff, filesystem.New(filesystem.Config{
			Root:   afero.NewHttpFs(afero.NewReadOnlyFs(d.Uploads)),
			Browse: false,
		}))
	}

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}
		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}
		return swagger.HandlerDefault(c)
	})

	api := app.Group("/api")
	api.Get("/health", HealthCheck(d.DB))

	authGroup := api.Group("/auth")
	authGroup.Post("/register", Register(d.Auth))
	authGroup.Post("/login", Login(d.Auth))

	users := api.Group("/users", requireAuth(d.Verifier))
	registerUsers(users, d.Users)

	guard := func(c *fiber.Ctx) error { return c.Next() }
	if d.RequireAuth {
		guard = requireAuth(d.Verifier)
	}

	pagos := api.Group("/pagos", guard)
	pagos.Get("/contrato/:contratoId", ListPaymentsByContract(d.Payments))
	pagos.Get("/deudas/activas", ListDebts(d.Payments))
	pagos.Get("/resumen/mensual", MonthlySummary(d.Reports))
	pagos.Get("/agrupados", ListGroupedPayments(d.Payments))
	pagos.Get("/", ListPayments(d.Payments))
	pagos.Get("/:id/archivo/:archivo", PaymentFile(d.Payments))
	pagos.Get("/:id", GetPayment(d.Payments))
	pagos.Post("/", CreatePayment(d.Payments, d.Spool))
	pagos.Put("/:id", UpdatePayment(d.Payments, d.Spool))
	pagos.Delete("/:id", DeletePayment(d.Payments))

	contratos := api.Group("/contratos", guard)
	for path, h := range contractListings(d.Contracts) {
		contratos.Get(path, h)
	}
	contratos.Get("/resumen", ContractSummary(d.Contracts))
	contratos.Get("/:id", GetContract(d.Contracts))
	contratos.Post("/", CreateContract(d.Contracts))
	contratos.Put("/:id", UpdateContract(d.Contracts))
	contratos.Delete("/:id", DeleteContract(d.Contracts))

	reportes := api.Group("/reportes", guard)
	reportes.Get("/resumen", GeneralSummary(d.Reports))
	reportes.Get("/pagos", PaymentsByPeriod(d.Reports))
	reportes.Get("/atrasados", OverduePayments(d.Reports))
	reportes.Get("/pagos-atrasados", OverduePayments(d.Reports))
	reportes.Get("/dashboard", Dashboard(d.Reports))
	reportes.Get("/contratos-activos", ActiveContracts(d.Reports))

	registerCRUD(api.Group("/inquilinos", guard), d.Tenants, "Inquilino eliminado correctamente")
	registerCRUD(api.Group("/departamentos", guard), d.Apartments, "Departamento eliminado correctamente")
	registerCRUD(api.Group("/estadospago", guard), d.PaymentStates, "Estado de pago eliminado correctamente")
	registerCRUD(api.Group("/tipospago", guard), d.PaymentTypes, "Tipo de pago eliminado correctamente")
}

// noSniff stops browsers from guessing a type other than the declared one.
func noSniff(c *fiber.Ctx) error {
	c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
	return c.Next()
}

// requireAuth verifies bearer tokens, or rejects every request when no
// verifier is configured.
func requireAuth(v auth.Verifier) fiber.Handler {
	if v == nil {
		return func(*fiber.Ctx) error {
			return fiber.NewError(http.StatusUnauthorized, "authentication is not configured")
		}
	}
	return middleware.Auth(v)
}
