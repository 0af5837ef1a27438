package bootstrap

import (
	"context"
	"log"

	"cortex-analyst-be/internal/config"
	"cortex-analyst-be/internal/controller"
	"cortex-analyst-be/internal/pkg/logger"
	"cortex-analyst-be/internal/repository/memory"
	redisRepo "cortex-analyst-be/internal/repository/redis"
	"cortex-analyst-be/internal/repository/unitofwork"
	"cortex-analyst-be/internal/service"
	"cortex-analyst-be/pkg/analyst"
	"cortex-analyst-be/pkg/database"
	"cortex-analyst-be/pkg/events"
	"cortex-analyst-be/pkg/feedback"
	"cortex-analyst-be/pkg/orchestrator"
	"cortex-analyst-be/pkg/registry"
	"cortex-analyst-be/pkg/session"
	"cortex-analyst-be/pkg/usagelog"
	"cortex-analyst-be/pkg/warehouse"

	pktNats "cortex-analyst-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AnalystController  controller.IAnalystController
	FeedbackController controller.IFeedbackController

	// Background Services (Exposed for main.go to run)
	EventRelayService service.IEventRelayService

	// Exposed for the operator CLI
	Orchestrator *orchestrator.Orchestrator
	Registry     *registry.Registry
	Feedback     *feedback.Store

	Logger logger.ILogger

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	analystLogger := logger.NewIsolatedLogger(cfg.App.AnalystLogFilePath)

	c := &Container{Logger: sysLogger}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	bus := events.NewBus(pubSub, sysLogger)

	// 3. Infrastructure
	warehouseDB := db
	if cfg.Database.WarehouseConnection != "" {
		wdb, err := database.NewGormDBFromDSN(cfg.Database.Driver, cfg.Database.WarehouseConnection)
		if err != nil {
			log.Fatalf("[FATAL] Failed to connect to warehouse: %v", err)
		}
		warehouseDB = wdb
	}

	sessions := newSessionRepository(cfg, c)

	// NATS is optional: without it events stay in process
	var forwarder service.EventForwarder
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			forwarder = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}

	// 4. Domain Components
	reg := registry.NewRegistry(uowFactory, cfg.Feedback.CacheTTL)
	feedbackStore := feedback.NewStore(uowFactory, sysLogger, feedback.Options{
		SharedUsername: cfg.Feedback.SharedUsername,
		CacheTTL:       cfg.Feedback.CacheTTL,
	})
	usageRecorder := usagelog.NewRecorder(uowFactory, sysLogger)
	runner := warehouse.NewRunner(warehouseDB, cfg.Render.MaxPreviewRows, sysLogger)

	analystClient := analyst.NewClient(analyst.Config{
		BaseURL:      cfg.Analyst.BaseURL,
		EndpointPath: cfg.Analyst.EndpointPath,
		Token:        cfg.Analyst.Token,
		TokenType:    cfg.Analyst.TokenType,
		Timeout:      cfg.Analyst.Timeout,
	}, analystLogger)

	orch := orchestrator.New(orchestrator.Dependencies{
		Registry: reg,
		Sessions: sessions,
		Analyst:  analystClient,
		Runner:   runner,
		Usage:    usageRecorder,
		Feedback: feedbackStore,
		Events:   bus,
		Logger:   sysLogger,
	}, orchestrator.Config{
		DefaultLang:          cfg.Feedback.DefaultLang,
		KeyQuestionLimit:     cfg.Feedback.KeyQuestionLimit,
		PopularQuestionLimit: cfg.Feedback.PopularQuestionLimit,
	})

	// 5. Services
	analystService := service.NewAnalystService(reg, orch, runner)
	feedbackService := service.NewFeedbackService(
		reg,
		feedbackStore,
		cfg.Feedback.KeyQuestionLimit,
		cfg.Feedback.PopularQuestionLimit,
	)
	relayService := service.NewEventRelayService(pubSub, events.Topic, feedbackStore, forwarder, sysLogger)

	// 6. Controllers
	c.AnalystController = controller.NewAnalystController(analystService)
	c.FeedbackController = controller.NewFeedbackController(feedbackService)
	c.EventRelayService = relayService
	c.Orchestrator = orch
	c.Registry = reg
	c.Feedback = feedbackStore

	return c
}

func newSessionRepository(cfg *config.Config, c *Container) session.Repository {
	if cfg.App.SessionStore != "redis" {
		log.Printf("[INFO] Using session store: MEMORY (ttl %s)", cfg.App.SessionTTL)
		return memory.NewSessionRepository(cfg.App.SessionTTL)
	}

	rdb, err := redisRepo.NewClientFromURL(context.Background(), cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Falling back to memory sessions", err)
		return memory.NewSessionRepository(cfg.App.SessionTTL)
	}
	c.closers = append(c.closers, func() { _ = rdb.Close() })
	log.Printf("[INFO] Using session store: REDIS (ttl %s)", cfg.App.SessionTTL)
	return redisRepo.NewSessionRepository(rdb, cfg.App.SessionTTL)
}

// Close releases external connections opened by NewContainer
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
