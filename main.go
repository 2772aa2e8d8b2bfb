package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/template/html/v2"
	"github.com/google/uuid"
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"notesweb/auth"
	"notesweb/config"
	"notesweb/handlers/api"
	"notesweb/handlers/web"
	"notesweb/middleware"
	"notesweb/storage"
	"notesweb/utils"
)

func main() {
	utils.Log.Info("Initializing notesweb...")

	// Load configuration
	cfg, err := config.LoadConfig("config.toml")
	if err != nil {
		utils.Log.Error("Failed to load config: %v", err)
		return
	}

	// Initialize i18n system
	if err := utils.InitI18n(); err != nil {
		utils.Log.Error("Failed to initialize i18n: %v", err)
	}

	// Session store persisted in bbolt so a login survives a restart
	sessionStorage, err := storage.NewBoltStorage(cfg.Session.StoragePath)
	if err != nil {
		utils.Log.Error("Failed to initialize session storage: %v", err)
		return
	}
	defer sessionStorage.Close()

	store := session.New(session.Config{
		Storage:        sessionStorage,
		Expiration:     cfg.Session.SessionExpiration(),
		CookieSecure:   cfg.Session.CookieSecure,
		CookieHTTPOnly: true,
	})

	// Remote notes service client and session manager
	client := api.NewClient(cfg.API.BaseURL, cfg.API.RequestTimeout())
	manager := auth.NewManager(store, auth.APIService(client), cfg)
	validate := validator.New()

	// Initialize template engine with custom functions
	engine := html.New("./templates", ".html")

	engine.AddFunc("split", strings.Split)
	engine.AddFunc("join", strings.Join)
	engine.AddFunc("lower", strings.ToLower)
	engine.AddFunc("upper", strings.ToUpper)
	engine.AddFunc("trim", strings.TrimSpace)
	engine.AddFunc("hasPrefix", strings.HasPrefix)

	engine.AddFunc("t", func(messageID string) string {
		// Overridden per-request with the request's localizer
		return utils.T(utils.Localizer, messageID)
	})

	engine.AddFunc("formatDate", func(t time.Time) string {
		return t.Format("Jan 02, 2006 15:04")
	})

	engine.AddFunc("preview", func(content string) string {
		return utils.NotePreview(content, 160)
	})

	engine.Reload(true)

	// Initialize Fiber with template engine
	app := fiber.New(fiber.Config{
		Views:       engine,
		ViewsLayout: "layouts/main",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError

			if appErr, ok := err.(*utils.AppError); ok {
				code = appErr.Code
				utils.Log.Error("Application error: %v", appErr)
			} else if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			if web.IsAPIRequest(c) {
				return c.Status(code).JSON(fiber.Map{
					"error": err.Error(),
				})
			}

			return c.Status(code).Render("error", fiber.Map{
				"Error": err.Error(),
				"Code":  code,
			})
		},
	})

	// Add global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	app.Use(helmet.New(helmet.Config{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "SAMEORIGIN",
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline';",
	}))
	app.Use(requestid.New(requestid.Config{
		Generator: func() string { return uuid.New().String() },
	}))

	app.Use(middleware.LocaleMiddleware())

	// 100 requests per minute per IP
	app.Use(middleware.RateLimiter(100, time.Minute))

	app.Use(middleware.CSRFProtection())

	// Serve static files
	app.Static("/assets", "./assets", fiber.Static{
		Compress:      true,
		CacheDuration: 24 * time.Hour,
	})

	// Initialize handlers
	authHandler := web.NewAuthHandler(manager, validate)
	notesHandler := web.NewNotesHandler(client, validate)
	profileHandler := web.NewProfileHandler(manager, validate)
	adminHandler := web.NewAdminHandler(client)

	// Public routes
	app.Get("/", func(c *fiber.Ctx) error {
		if manager.Resolve(c).IsAuthenticated() {
			return c.Redirect("/dashboard")
		}
		return c.Redirect("/login")
	})
	app.Get("/login", authHandler.ShowLogin)
	app.Post("/login", authHandler.HandleLogin)
	app.Get("/register", authHandler.ShowRegister)
	app.Post("/register", authHandler.HandleRegister)
	app.Get("/logout", authHandler.HandleLogout)

	// Health check endpoint; registered ahead of the guarded groups so it
	// stays public.
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Authenticated routes
	protected := app.Group("", middleware.RequireAuth(manager))

	protected.Get("/dashboard", notesHandler.HandleDashboard)

	protected.Get("/notes", notesHandler.HandleNotes)
	protected.Get("/notes/new", notesHandler.ShowNoteForm)
	protected.Post("/notes", notesHandler.HandleCreateNote)
	protected.Get("/notes/shared", notesHandler.HandleSharedNotes)
	protected.Get("/notes/:id", notesHandler.HandleNoteView)
	protected.Get("/notes/:id/edit", notesHandler.ShowNoteForm)
	protected.Post("/notes/:id", notesHandler.HandleUpdateNote)
	protected.Post("/notes/:id/delete", notesHandler.HandleDeleteNote)
	protected.Get("/notes/:id/share", notesHandler.ShowShareNote)
	protected.Post("/notes/:id/share", notesHandler.HandleShareNote)

	protected.Get("/profile", profileHandler.ShowProfile)
	protected.Post("/profile", profileHandler.HandleUpdateProfile)

	// JSON routes used by the templates' fetch calls
	apiRoutes := protected.Group("/api")
	{
		apiRoutes.Delete("/notes/:id", notesHandler.HandleDeleteNote)
		apiRoutes.Post("/notes/:id/share", notesHandler.HandleShareNote)
	}

	// Admin routes
	admin := protected.Group("/admin", middleware.RequireAdmin(manager))
	admin.Get("/users", adminHandler.ShowUsers)
	admin.Post("/users/:id/delete", adminHandler.HandleDeleteUser)
	apiRoutes.Delete("/users/:id", middleware.RequireAdmin(manager), adminHandler.HandleDeleteUser)

	// 404 Handler for undefined routes
	app.Use(func(c *fiber.Ctx) error {
		localizer, _ := c.Locals("localizer").(*i18n.Localizer)

		if web.IsAPIRequest(c) {
			return c.Status(404).JSON(fiber.Map{
				"error": utils.T(localizer, "error_404"),
			})
		}
		return c.Status(404).Render("error", fiber.Map{
			"Error": utils.T(localizer, "error_404"),
			"Code":  404,
		})
	})

	// Start server
	utils.Log.Info("Starting server on port %d...", cfg.Server.Port)
	if err := app.Listen(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		utils.Log.Error("Error starting server: %v", err)
	}
}
