// cmd/advisor-server/main.go
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"

	"pump-advisor/internal/advisor/catalog"
	"pump-advisor/internal/advisor/chat"
	"pump-advisor/internal/advisor/conversation"
	"pump-advisor/internal/advisor/session"
	"pump-advisor/internal/advisor/sizing"
	"pump-advisor/internal/api"
	"pump-advisor/internal/common/aws"
	"pump-advisor/internal/common/camunda"
	"pump-advisor/internal/common/config"
	"pump-advisor/internal/common/database"
	apperrors "pump-advisor/internal/common/errors"
	"pump-advisor/internal/common/logger"
	"pump-advisor/internal/common/observability"
	"pump-advisor/internal/common/zoho"

	// In-process collaborators of the chat service
	gr "pump-advisor/internal/workers/ai-conversation/generate-reply"
	lf "pump-advisor/internal/workers/ai-conversation/lookup-facts"
	sk "pump-advisor/internal/workers/ai-conversation/search-knowledge"

	// Lead process job workers
	ns "pump-advisor/internal/workers/leads/notify-sales"
	rl "pump-advisor/internal/workers/leads/record-lead"
	cr "pump-advisor/internal/workers/sizing/compute-recommendation"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewStructured(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})

	if err := run(cfg, log); err != nil {
		log.Error("advisor server stopped", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Starting pump advisor", map[string]interface{}{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
		"port":        cfg.Server.Port,
	})

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		log.Warn("otel exporter unavailable, turn metrics disabled", map[string]interface{}{"error": err.Error()})
	}
	defer obs.Shutdown()

	cat, err := catalog.Load(cfg.Catalog.Path, cfg.Catalog.AllowDegraded, log)
	if err != nil {
		return err
	}

	var checks []api.ReadinessCheck

	// --- Redis: session store and lookup cache ---
	var redisClient *redis.Client
	if cfg.Database.Redis.Address != "" {
		rc := database.NewRedis(cfg.Database.Redis)
		err := retryWithBackoff(func() error { return rc.Ping(ctx) }, 5, time.Second, log, "Redis connection")
		switch {
		case err == nil:
			defer rc.Close()
			redisClient = rc.Client
			checks = append(checks, api.ReadinessCheck{Name: "redis", Check: rc.Ping})
			log.Info("Redis connected successfully", nil)
		case cfg.Session.Backend == config.SessionBackendRedis:
			return apperrors.NewDatabaseConnectionFailedError(err)
		default:
			rc.Close()
			log.Warn("Redis unavailable, lookup cache is in-process only", map[string]interface{}{"error": err.Error()})
		}
	}

	ttl := config.GetDuration(cfg.Session.TTL)
	var store session.Store
	if cfg.Session.Backend == config.SessionBackendRedis {
		store = session.NewRedisStore(redisClient, cfg.Session.KeyPrefix, ttl, nil)
	} else {
		store = session.NewMemoryStore(ttl, nil)
	}
	session.StartSweeper(ctx, store, config.GetDuration(cfg.Session.SweepInterval), nil, log.Named("sweeper"))

	// --- Lookups and reply generation ---
	web, err := lf.NewHandler(&lf.Config{
		SearchAPIBaseURL: cfg.APIs.WebSearch.BaseURL,
		SearchAPIKey:     cfg.APIs.WebSearch.APIKey,
		SearchEngineID:   cfg.APIs.WebSearch.EngineID,
		Timeout:          config.GetDuration(cfg.APIs.WebSearch.Timeout),
		MaxResults:       5,
		CacheSize:        512,
		CacheTTL:         config.GetDuration(cfg.APIs.WebSearch.CacheTTL),
		CacheKeyPrefix:   "advisor:fact:",
	}, redisClient, &lookupFactsLoggerAdapter{log})
	if err != nil {
		return fmt.Errorf("lookup-facts: %w", err)
	}

	var knowledge chat.FactLookup
	if es := cfg.Database.Elasticsearch; es.GetURL() != "" {
		esClient, err := database.NewElasticsearch(es)
		if err == nil {
			err = esClient.Ping(ctx)
		}
		if err == nil {
			if created, ierr := esClient.EnsureKnowledgeIndex(ctx, es.KnowledgeIndex); ierr != nil {
				log.Warn("knowledge index check failed", map[string]interface{}{"error": ierr.Error()})
			} else if created {
				log.Info("knowledge index created", map[string]interface{}{"index": es.KnowledgeIndex})
			}
			kcfg := sk.LoadConfig()
			kcfg.Index = es.KnowledgeIndex
			knowledge = sk.NewHandler(kcfg, esClient.Client, &searchKnowledgeLoggerAdapter{log})
			checks = append(checks, api.ReadinessCheck{Name: "elasticsearch", Check: esClient.Ping})
			log.Info("Elasticsearch connected successfully", nil)
		} else {
			log.Warn("Elasticsearch unavailable, pump info falls back to web search", map[string]interface{}{"error": err.Error()})
		}
	}

	gcfg := &gr.Config{
		Provider:           cfg.APIs.GenAI.Provider,
		GenAIBaseURL:       cfg.APIs.GenAI.BaseURL,
		APIKey:             cfg.APIs.GenAI.APIKey,
		Model:              cfg.APIs.GenAI.Model,
		Timeout:            config.GetDuration(cfg.APIs.GenAI.Timeout),
		MaxAttempts:        cfg.APIs.GenAI.MaxRetries,
		MaxTokens:          cfg.APIs.GenAI.MaxTokens,
		Temperature:        cfg.APIs.GenAI.Temperature,
		MaxTranscriptTurns: 20,
	}
	var replies *gr.Handler
	if gcfg.Provider == gr.ProviderGemini {
		if replies, err = gr.NewGeminiHandler(ctx, gcfg, &generateReplyLoggerAdapter{log}); err != nil {
			return fmt.Errorf("gemini client: %w", err)
		}
	} else {
		replies = gr.NewHandler(gcfg, &generateReplyLoggerAdapter{log})
	}

	// --- Lead process (optional) ---
	var leads chat.LeadPublisher
	if cfg.Camunda.Enabled {
		zc, workers, cleanup, err := startLeadProcess(ctx, cfg, cat, log)
		if err != nil {
			return err
		}
		defer cleanup()
		leads = camunda.NewLeadStarter(zc, cfg.Camunda.LeadProcessID, log)
		checks = append(checks, api.ReadinessCheck{Name: "zeebe", Check: zc.HealthCheck})
		defer func() {
			for _, w := range workers {
				w.Close()
			}
		}()
	}

	sizingOpts := sizing.Options{PeakSunHours: cfg.Sizing.PeakSunHours}
	svc := chat.NewService(chat.Deps{
		Store:     store,
		Machine:   conversation.NewMachine(cat, sizingOpts, log.Named("conversation")),
		Web:       web,
		Knowledge: knowledge,
		Replies:   replies,
		Leads:     leads,
		Obs:       obs,
		Log:       log,
	}, chat.Options{
		MaxMessageLength: cfg.Server.MaxMessageLength,
		LookupTimeout:    config.GetDuration(cfg.APIs.WebSearch.Timeout),
		TurnTimeout:      config.GetDuration(cfg.Server.TurnTimeout),
	})

	handler := api.NewHandler(svc, cat, api.Config{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		PeakSunHours:   cfg.Sizing.PeakSunHours,
		Version:        cfg.App.Version,
	}, checks, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           api.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutdown signal received, stopping server...", nil)
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	log.Info("Server stopped", nil)
	return nil
}

// startLeadProcess connects to Zeebe and opens the lead workers.
func startLeadProcess(ctx context.Context, cfg *config.Config, cat *catalog.Catalog, log logger.Logger) (*camunda.Client, []worker.JobWorker, func(), error) {
	var zc *camunda.Client
	err := retryWithBackoff(func() error {
		var err error
		zc, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, log, "Zeebe client initialization")
	if err != nil {
		return nil, nil, nil, err
	}
	log.Info("Zeebe client connected successfully", nil)

	cleanups := []func(){func() { _ = zc.Close() }}
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
	var workers []worker.JobWorker

	// compute-pump-recommendation
	if wcfg := config.GetWorkerConfig(cfg, cr.TaskType); wcfg.Enabled {
		h := cr.NewHandler(&cr.Config{
			PeakSunHours: cfg.Sizing.PeakSunHours,
			Timeout:      config.GetDuration(wcfg.Timeout),
		}, cat, log)
		if w := camunda.StartWorker(zc.GetClient(), cr.TaskType, wcfg, h.Handle, log); w != nil {
			workers = append(workers, w)
		}
	}

	// record-pump-lead
	if wcfg := config.GetWorkerConfig(cfg, rl.TaskType); wcfg.Enabled && !cfg.Database.Postgres.Configured() {
		log.Warn("PostgreSQL not configured, lead recording disabled", map[string]interface{}{"taskType": rl.TaskType})
	} else if wcfg.Enabled {
		var pg *database.PostgresClient
		err := retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 10, 2*time.Second, log, "PostgreSQL connection")
		if err != nil {
			cleanup()
			return nil, nil, nil, apperrors.NewDatabaseConnectionFailedError(err)
		}
		cleanups = append(cleanups, func() { _ = pg.Close() })
		if err := pg.Migrate(ctx); err != nil {
			cleanup()
			return nil, nil, nil, err
		}

		var crm rl.CRM
		if z := cfg.Integrations.Zoho; z.Enabled {
			crm = zoho.NewCRMClient(z.BaseURL, z.AuthToken, 30*time.Second)
		}
		rcfg := rl.LoadConfig()
		rcfg.Timeout = config.GetDuration(wcfg.Timeout)
		h := rl.NewHandler(rcfg, pg.DB, crm, log)
		if w := camunda.StartWorker(zc.GetClient(), rl.TaskType, wcfg, h.Handle, log); w != nil {
			workers = append(workers, w)
		}
	}

	// notify-sales
	if wcfg := config.GetWorkerConfig(cfg, ns.TaskType); wcfg.Enabled {
		awsCfg := cfg.Integrations.AWS
		var email ns.EmailSender
		var sms ns.SMSSender
		if awsCfg.SES.Enabled || awsCfg.SNS.Enabled {
			sdkCfg, err := aws.LoadConfig(ctx, awsCfg.Region)
			if err != nil {
				cleanup()
				return nil, nil, nil, fmt.Errorf("load AWS config: %w", err)
			}
			if awsCfg.SES.Enabled {
				email = aws.NewSESClient(sdkCfg, awsCfg.SES.FromEmail)
			}
			if awsCfg.SNS.Enabled {
				sms = aws.NewSNSClient(sdkCfg, awsCfg.SNS.DefaultSMSSenderID)
			}
		}
		h := ns.NewHandler(&ns.Config{
			EmailEnabled:      awsCfg.SES.Enabled,
			SMSEnabled:        awsCfg.SNS.Enabled,
			SalesEmail:        cfg.Notifications.SalesEmail,
			SalesPhone:        cfg.Notifications.SalesPhone,
			SMSPanelThreshold: cfg.Notifications.SMSPanelThreshold,
			Timeout:           config.GetDuration(wcfg.Timeout),
		}, email, sms, log)
		if w := camunda.StartWorker(zc.GetClient(), ns.TaskType, wcfg, h.Handle, log); w != nil {
			workers = append(workers, w)
		}
	}

	return zc, workers, cleanup, nil
}

// Adapters give the in-process collaborators their narrow Logger types.
type lookupFactsLoggerAdapter struct {
	logger.Logger
}

func (a *lookupFactsLoggerAdapter) With(fields map[string]interface{}) lf.Logger {
	return &lookupFactsLoggerAdapter{a.Logger.With(fields)}
}

type searchKnowledgeLoggerAdapter struct {
	logger.Logger
}

func (a *searchKnowledgeLoggerAdapter) With(fields map[string]interface{}) sk.Logger {
	return &searchKnowledgeLoggerAdapter{a.Logger.With(fields)}
}

type generateReplyLoggerAdapter struct {
	logger.Logger
}

func (a *generateReplyLoggerAdapter) With(fields map[string]interface{}) gr.Logger {
	return &generateReplyLoggerAdapter{a.Logger.With(fields)}
}
