package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/veresko/boxroom/internal/server/http/handlers"
	"github.com/veresko/boxroom/internal/server/http/middleware"
)

// Setup configures the gin router with handlers and middleware.
func Setup(facade handlers.RentalFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	orderHandler := handlers.NewOrderHandler(facade)
	contractHandler := handlers.NewContractHandler(facade)
	storageHandler := handlers.NewStorageHandler(facade)
	availabilityHandler := handlers.NewAvailabilityHandler(facade)

	api := engine.Group("/api")
	api.GET("/availability", availabilityHandler.Availability)

	user := api.Group("")
	user.Use(middleware.Identity())
	user.POST("/orders", orderHandler.Create)
	user.GET("/orders", orderHandler.List)
	user.GET("/orders/:reference", orderHandler.Get)
	user.POST("/orders/:reference/pay", orderHandler.Pay)
	user.POST("/orders/:reference/pay/confirm", orderHandler.ConfirmPayment)
	user.POST("/orders/:reference/complete", orderHandler.Complete)
	user.POST("/orders/:reference/cancel", orderHandler.Cancel)
	user.GET("/contracts", contractHandler.List)
	user.GET("/contracts/:number", contractHandler.Get)
	user.POST("/contracts/:number/sign", contractHandler.Sign)
	user.POST("/contracts/:number/terminate", contractHandler.Terminate)

	admin := api.Group("/admin")
	admin.POST("/categories", storageHandler.CreateCategory)
	admin.POST("/categories/:categoryID/units", storageHandler.CreateUnit)
	admin.GET("/categories/:categoryID/at-risk", availabilityHandler.AtRisk)
	admin.DELETE("/units/:unitID", storageHandler.DeleteUnit)
	admin.POST("/units/:unitID/unavailable", storageHandler.MarkUnavailable)
	admin.POST("/units/:unitID/available", storageHandler.MarkAvailable)
	admin.POST("/units/:unitID/unavailabilities", storageHandler.DeclareUnavailability)
	admin.DELETE("/unavailabilities/:id", storageHandler.RemoveUnavailability)

	return engine
}
