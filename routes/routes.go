package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Vivek-Rav/yawye/controllers"
	"github.com/Vivek-Rav/yawye/middlewares"
)

// Per-user request throttle for the scan endpoints: 10 requests per minute,
// per instance.
const (
	rateLimit  = 10
	rateWindow = 60 * time.Second
)

func SetupRouter(
	jwtSecret string,
	scanCtrl *controllers.ScanController,
	streamCtrl *controllers.StreamController,
) *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	limiter := middlewares.NewRateLimiter(rateLimit, rateWindow)

	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware(jwtSecret))
	{
		scan := api.Group("/scan")
		{
			scan.GET("/limit", scanCtrl.CheckLimit)
			scan.POST("", limiter.Middleware(), scanCtrl.Analyze)
			scan.POST("/confirm", limiter.Middleware(), scanCtrl.Confirm)
			scan.GET("/history", scanCtrl.History)
			scan.DELETE("/history", scanCtrl.ClearHistory)
			scan.DELETE("/:id", scanCtrl.DeleteScan)
			scan.GET("/stream", streamCtrl.ScansWS)
		}
	}

	return r
}
