package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pantallas-api/internal/application/auth"
	"github.com/jhoicas/Pantallas-api/internal/application/usecase"
	"github.com/jhoicas/Pantallas-api/internal/domain"
	"github.com/jhoicas/Pantallas-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	Tokens     *auth.TokenService
	CompanyUC  *usecase.CompanyUseCase
	ResourceUC *usecase.ResourceUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/verify-registration-otp", authHandler.VerifyRegistration)
	authGroup.Post("/resend-otp", authHandler.ResendOTP)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh-tokens", authHandler.Refresh)
	authGroup.Post("/forgot-password", authHandler.ForgotPassword)
	authGroup.Post("/verify-reset-otp", authHandler.VerifyResetOTP)
	authGroup.Post("/reset-password", authHandler.ResetPassword)

	// Rutas protegidas (requieren access token)
	protected := api.Group("/", AuthMiddleware(deps.Tokens))
	protected.Post("/auth/logout", authHandler.Logout)
	protected.Post("/auth/change-password", authHandler.ChangePassword)

	// Companies (protegido)
	companies := protected.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Post("/", RequirePermissions(domain.PermManageCompany), companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Recursos de contenido: mismo modelo de permisos y scoping, permiso
	// distinto por tipo. La empresa del caller debe estar activa.
	activeCompany := RequireActiveCompany(deps.CompanyUC)
	registerResourceRoutes(protected, "/templates", NewResourceHandler(deps.ResourceUC, entity.ResourceTemplate), domain.PermManageTemplates, activeCompany)
	registerResourceRoutes(protected, "/screens", NewResourceHandler(deps.ResourceUC, entity.ResourceScreen), domain.PermManageScreens, activeCompany)
	registerResourceRoutes(protected, "/playlists", NewResourceHandler(deps.ResourceUC, entity.ResourcePlaylist), domain.PermManagePlaylists, activeCompany)
}

func registerResourceRoutes(router fiber.Router, prefix string, handler *ResourceHandler, perm string, activeCompany fiber.Handler) {
	group := router.Group(prefix, RequirePermissions(perm), activeCompany)
	group.Post("/", handler.Create)
	group.Get("/", handler.List)
	group.Get("/recycle-bin", RequirePermissions(domain.PermViewRecycleBin), handler.ListRecycleBin)
	group.Get("/:id", handler.GetByID)
	group.Delete("/:id", handler.Delete)
	group.Post("/:id/restore", RequirePermissions(domain.PermViewRecycleBin), handler.Restore)
}
