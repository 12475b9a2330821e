package http

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"jce-assistant/internal/bootstrap"
	redisClient "jce-assistant/internal/platform/redis"
	"jce-assistant/internal/transport/http/handler"
	"jce-assistant/internal/transport/http/middleware"
)

var errRabbitMQClosed = errors.New("connection closed")

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(middleware.RequestLogger(app.Logger.Named("http")), middleware.Recovery(app.Logger))

	healthHandler := handler.NewHealthHandler(
		app.Config.App.Name,
		app.Config.App.Env,
		app.StartedAt,
		app.Knowledge,
		healthChecks(app),
	).WithQuota(app.Assistant.QuotaRemaining)
	router.GET("/healthz", healthHandler.Check)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{})))

	var transcripts handler.TranscriptLister
	if app.Transcripts != nil {
		transcripts = app.Transcripts
	}
	chatHandler := handler.NewChatHandler(app.Assistant, transcripts)
	knowledgeHandler := handler.NewKnowledgeHandler(app.Knowledge)

	v1 := router.Group("/api/v1")
	chatGroup := v1.Group("/chat")
	chatGroup.POST("/messages", chatHandler.SendMessage)
	if transcripts != nil {
		chatGroup.GET("/transcripts", chatHandler.ListTranscripts)
	}

	knowledgeGroup := v1.Group("/knowledge")
	knowledgeGroup.GET("/search", knowledgeHandler.Search)
	knowledgeGroup.GET("/summary", knowledgeHandler.Summary)

	return router
}

func healthChecks(app *bootstrap.App) map[string]handler.HealthCheck {
	checks := make(map[string]handler.HealthCheck)
	if app.DB != nil {
		checks["database"] = func(ctx context.Context) error {
			sqlDB, err := app.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}
	if app.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx, app.Redis)
		}
	}
	if app.MQConn != nil {
		checks["rabbitmq"] = func(context.Context) error {
			if app.MQConn.IsClosed() {
				return errRabbitMQClosed
			}
			return nil
		}
	}
	return checks
}
