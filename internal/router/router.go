// Package router assembles the HTTP API.
package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "fintrack/internal/docs" // Import swagger docs
	"fintrack/internal/handlers"
	"fintrack/internal/middleware"
)

// Deps are the collaborators the router wires into routes.
type Deps struct {
	Records        *handlers.RecordHandler
	Health         *handlers.HealthHandler
	AllowedOrigins []string
	IdentitySecret string
}

// New builds the gin engine with the full middleware chain and every route
// mounted under /api.
func New(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogging())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORS(deps.AllowedOrigins))

	r.NoRoute(middleware.NotFound())

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	api.GET("/health", deps.Health.Health)

	records := api.Group("/financial-records")
	records.Use(middleware.Identity(deps.IdentitySecret))
	records.GET("/all", deps.Records.GetAllRecords)
	records.GET("/getAllByUserID/:userId", deps.Records.GetUserRecords)
	records.GET("/monthlyTotals", deps.Records.GetMonthlyTotals)
	records.GET("/options", deps.Records.GetRecordOptions)
	records.GET("/export", deps.Records.ExportRecords)
	records.GET("/:id", deps.Records.GetRecordByID)
	records.POST("", deps.Records.CreateRecord)
	records.PUT("/:id", deps.Records.UpdateRecord)
	records.DELETE("/:id", deps.Records.DeleteRecord)

	return r
}
