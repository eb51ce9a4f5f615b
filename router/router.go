package router

import (
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	adCtrl "krishibondhu/pkg/ad/controller"
	adminCtrl "krishibondhu/pkg/admin/controller"
	assistantCtrl "krishibondhu/pkg/assistant/controller"
	cropCtrl "krishibondhu/pkg/crop/controller"
	marketCtrl "krishibondhu/pkg/market/controller"
	"krishibondhu/pkg/middleware"
	newsCtrl "krishibondhu/pkg/news/controller"
	supportCtrl "krishibondhu/pkg/support/controller"
)

type Options struct {
	AdminPassword string
	StaticDir     string // empty disables the frontend routes
	Logger        *zap.Logger
}

func New(
	e *echo.Echo,
	opts Options,
	crops cropCtrl.CropController,
	news newsCtrl.NewsController,
	market marketCtrl.MarketController,
	ads adCtrl.AdController,
	assistant assistantCtrl.AssistantController,
	support supportCtrl.SupportController,
	admin adminCtrl.AdminController,
	weather interface{ Forecast(echo.Context) error },
	healthCtrl interface{ Health(echo.Context) error },
) *echo.Echo {
	e.Use(echoMiddleware.Recover())
	if opts.Logger != nil {
		e.Use(middleware.RequestLogger(opts.Logger))
	}
	e.Use(middleware.Lang())

	e.GET("/health", healthCtrl.Health)

	api := e.Group("/api")
	api.GET("/crops", crops.List)
	api.GET("/crops/:id", crops.Get)
	api.GET("/news", news.List)
	api.GET("/market", market.List)
	api.GET("/market/:id", market.Get)
	api.POST("/market/:id/contact", market.Contact)
	api.GET("/weather", weather.Forecast)
	api.GET("/ads/active/:position", ads.Active)
	api.GET("/sync/status", admin.SyncStatus)
	api.POST("/diagnose", assistant.Diagnose, echoMiddleware.BodyLimit("10M"))
	api.POST("/chat", assistant.Chat)
	api.POST("/support/expert-call", support.ExpertCall)

	e.POST("/admin/api/login", admin.Login)
	e.POST("/admin/api/logout", admin.Logout)

	g := e.Group("/admin/api", middleware.AdminToken(opts.AdminPassword))
	g.GET("/session", admin.Session)
	g.POST("/reset", admin.Reset)

	g.POST("/crops", crops.Create)
	g.PUT("/crops/:id", crops.Update)
	g.DELETE("/crops/:id", crops.Delete)
	g.GET("/crops/export.xlsx", crops.Export)
	g.POST("/crops/import", crops.Import)

	g.POST("/news", news.Create)
	g.PUT("/news/:id", news.Update)
	g.DELETE("/news/:id", news.Delete)
	g.POST("/news/import-url", news.ImportURL)

	g.POST("/market", market.Create)
	g.PUT("/market/:id", market.Update)
	g.DELETE("/market/:id", market.Delete)

	g.GET("/ads", ads.List)
	g.PUT("/ads", ads.Save)
	g.DELETE("/ads/:id", ads.Delete)

	if opts.StaticDir != "" {
		e.Static("/static", opts.StaticDir)
		e.File("/", opts.StaticDir+"/index.html")
	}
	return e
}
