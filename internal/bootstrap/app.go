package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"jce-assistant/internal/ai"
	"jce-assistant/internal/app"
	"jce-assistant/internal/config"
	"jce-assistant/internal/conversation"
	"jce-assistant/internal/knowledge"
	"jce-assistant/internal/model"
	"jce-assistant/internal/platform/database"
	"jce-assistant/internal/platform/logger"
	rabbitmqClient "jce-assistant/internal/platform/rabbitmq"
	redisClient "jce-assistant/internal/platform/redis"
	"jce-assistant/internal/quota"
	"jce-assistant/internal/repository"
	"jce-assistant/internal/router"
	"jce-assistant/internal/worker"
)

type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Knowledge *knowledge.Store
	Assistant *app.AssistantService
	Registry  *prometheus.Registry

	DB               *gorm.DB
	Transcripts      *repository.TranscriptRepository
	Redis            *redis.Client
	MQConn           *amqp.Connection
	TranscriptWorker *worker.TranscriptPersistWorker
	Pool             *ants.Pool

	StartedAt time.Time

	stopWatch context.CancelFunc
	watchDone chan struct{}
}

// New wires every dependency from configuration. Resources opened before a
// failure are released.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:    cfg,
		Logger:    log,
		Registry:  prometheus.NewRegistry(),
		StartedAt: time.Now(),
	}
	if err := a.init(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context) error {
	cfg := a.Config
	a.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a.Knowledge = knowledge.NewStore(cfg.Knowledge.StorePath)
	if err := a.Knowledge.Load(); err != nil {
		return fmt.Errorf("load knowledge store failed: %w", err)
	}
	a.Logger.Info("knowledge store loaded",
		zap.String("path", cfg.Knowledge.StorePath),
		zap.Int("documents", a.Knowledge.Len()),
	)
	if cfg.Knowledge.Watch {
		if err := a.startWatch(ctx); err != nil {
			return err
		}
	}

	history, err := a.openHistory(ctx)
	if err != nil {
		return err
	}

	sink, err := a.openTranscripts(ctx)
	if err != nil {
		return err
	}

	var generator ai.Generator
	if cfg.LLM.APIKey != "" {
		client, err := ai.NewOpenAICompatibleClient(ai.Config{
			BaseURL: cfg.LLM.BaseURL,
			APIKey:  cfg.LLM.APIKey,
			Model:   cfg.LLM.Model,
			Timeout: cfg.LLMTimeout(),
		})
		if err != nil {
			return fmt.Errorf("create llm client failed: %w", err)
		}
		generator = client
	} else {
		a.Logger.Warn("llm api key not set, answering from knowledge base only")
	}

	a.Pool, err = ants.NewPool(cfg.Assistant.WorkerPoolSize)
	if err != nil {
		return fmt.Errorf("create backend pool failed: %w", err)
	}

	a.Assistant, err = app.NewAssistantService(app.AssistantDeps{
		History:   history,
		Guard:     quota.NewGuard(cfg.Assistant.QuotaMaxCalls, cfg.QuotaWindow()),
		Generator: generator,
		Router:    router.New(a.Knowledge, nil),
		Pool:      a.Pool,
		Sink:      sink,
		Metrics:   app.NewMetrics(a.Registry),
		Logger:    a.Logger.Named("assistant"),
	})
	if err != nil {
		return fmt.Errorf("create assistant failed: %w", err)
	}
	return nil
}

func (a *App) startWatch(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(a.Config.Knowledge.StorePath), 0o755); err != nil {
		return fmt.Errorf("create knowledge dir failed: %w", err)
	}
	watchCtx, cancel := context.WithCancel(ctx)
	a.stopWatch = cancel
	a.watchDone = make(chan struct{})
	go func() {
		defer close(a.watchDone)
		if err := knowledge.Watch(watchCtx, a.Knowledge, a.Config.WatchDebounce(), a.Logger.Named("knowledge")); err != nil {
			a.Logger.Error("knowledge watcher stopped", zap.Error(err))
		}
	}()
	return nil
}

func (a *App) openHistory(ctx context.Context) (conversation.Store, error) {
	cfg := a.Config
	if cfg.Redis.Addr == "" {
		return conversation.NewMemoryStore(cfg.LLM.SystemPrompt, cfg.Assistant.HistoryLimit), nil
	}
	client, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}
	a.Redis = client
	return conversation.NewRedisStore(client, cfg.LLM.SystemPrompt, cfg.Assistant.HistoryLimit, cfg.HistoryTTL()), nil
}

// openTranscripts returns nil when transcript persistence is disabled.
func (a *App) openTranscripts(ctx context.Context) (app.TranscriptSink, error) {
	cfg := a.Config
	if !cfg.Database.Enabled {
		return nil, nil
	}

	db, err := database.New(ctx, cfg.Database.Driver, cfg.DatabaseDSN())
	if err != nil {
		return nil, err
	}
	a.DB = db
	if err := db.AutoMigrate(&model.Exchange{}); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}
	a.Transcripts = repository.NewTranscriptRepository(db)

	if cfg.RabbitMQ.URL == "" {
		return a.Transcripts, nil
	}

	conn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}
	a.MQConn = conn

	a.TranscriptWorker = worker.NewTranscriptPersistWorker(conn, a.Transcripts, cfg.RabbitMQ.TranscriptQueue, a.Logger.Named("worker"))
	if err := a.TranscriptWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start transcript worker failed: %w", err)
	}
	return rabbitmqClient.NewTranscriptPublisher(conn, cfg.RabbitMQ.TranscriptQueue), nil
}

func (a *App) Close() error {
	var closeErr error
	if a.stopWatch != nil {
		a.stopWatch()
		<-a.watchDone
	}
	if a.Pool != nil {
		a.Pool.Release()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.TranscriptWorker != nil {
		a.TranscriptWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	_ = a.Logger.Sync()
	return closeErr
}
