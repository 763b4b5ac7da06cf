package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/radieske/bet-ledger-poc/internal/ledger"
	"github.com/radieske/bet-ledger-poc/internal/ledger-service/auth"
	"github.com/radieske/bet-ledger-poc/internal/ledger-service/host"
	httpapi "github.com/radieske/bet-ledger-poc/internal/ledger-service/http"
	lmetrics "github.com/radieske/bet-ledger-poc/internal/ledger-service/metrics"
	"github.com/radieske/bet-ledger-poc/internal/ledger-service/outbox"
	"github.com/radieske/bet-ledger-poc/internal/ledger-service/producer"
	"github.com/radieske/bet-ledger-poc/internal/ledger-service/store"
	"github.com/radieske/bet-ledger-poc/internal/ledger-service/ws"
	"github.com/radieske/bet-ledger-poc/internal/shared/cache"
	"github.com/radieske/bet-ledger-poc/internal/shared/config"
	"github.com/radieske/bet-ledger-poc/internal/shared/kafka"
	"github.com/radieske/bet-ledger-poc/internal/shared/logger"
	"github.com/radieske/bet-ledger-poc/internal/shared/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Errorf("config: %w", err))
	}

	// inicia logger
	log, err := logger.New(cfg.ServiceName, cfg.Env, logger.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxDays:    cfg.Log.MaxDays,
	})
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()
	log.Info("starting service",
		zap.String("service", cfg.ServiceName),
		zap.String("env", cfg.Env),
		zap.String("store", cfg.StoreBackend))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// backend de estado
	backend, err := store.Open(ctx, store.Options{
		Backend:     cfg.StoreBackend,
		LevelDBPath: cfg.LevelDBPath,
		RedisAddr:   cfg.RedisAddr,
		RedisPrefix: cfg.RedisPrefix,
		PostgresDSN: cfg.PostgresDSN,
	})
	if err != nil {
		log.Fatal("failed to open store", zap.Error(err))
	}
	defer backend.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := lmetrics.New(reg)

	hub := ws.NewHub(ws.AllowOrigins(cfg.AllowedOrigins()), log.Named("ws"), m)

	// publishers de eventos: Kafka (se configurado) e broadcast Redis -> hubs.
	// Sem Redis o host entrega direto ao hub local.
	var pubs producer.Fanout
	transfers := outbox.Sink(producer.Nop{})

	if cfg.KafkaBrokers != "" {
		tw := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicTransfers)
		dw := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicTransfersDLQ)
		ew := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicEvents)
		defer tw.Close()
		defer dw.Close()
		defer ew.Close()
		transfers = producer.NewTransferPublisher(tw, dw)
		pubs = append(pubs, producer.NewKafkaEventPublisher(ew))
		log.Info("kafka writers ready",
			zap.String("transfers", cfg.TopicTransfers),
			zap.String("events", cfg.TopicEvents))
	} else {
		log.Warn("kafka disabled, transfers stay in the outbox")
	}

	if cfg.RedisAddr != "" {
		rdb, err := cache.ConnectRedis(ctx, cfg.RedisAddr)
		if err != nil {
			log.Warn("redis unavailable, broadcasting to local hub only", zap.Error(err))
			pubs = append(pubs, hub)
		} else {
			defer rdb.Close()
			pubs = append(pubs, producer.NewRedisBroadcaster(rdb, cfg.RedisPubSubChannel))
			ws.StartRedisSubscriber(ctx, rdb, cfg.RedisPubSubChannel, hub, log.Named("ws"))
			log.Info("redis broadcast ready", zap.String("channel", cfg.RedisPubSubChannel))
		}
	} else {
		pubs = append(pubs, hub)
	}

	h := host.New(ledger.New(cfg.DepositDenom), backend, host.Options{
		Logger:  log.Named("host"),
		Metrics: m,
		Events:  pubs,
	})
	go h.RunEvents(ctx)

	if cfg.LedgerAdmin != "" {
		_, err := h.Instantiate(ctx, cfg.LedgerAdmin)
		switch {
		case err == nil:
			log.Info("ledger instantiated", zap.String("admin", cfg.LedgerAdmin), zap.String("denom", cfg.DepositDenom))
		case errors.Is(err, ledger.ErrAlreadyInitialized):
			log.Info("ledger already instantiated")
		default:
			log.Fatal("instantiate ledger", zap.Error(err))
		}
	}

	dispatcher := &outbox.Dispatcher{
		Log:         log.Named("outbox"),
		Source:      h,
		Sink:        transfers,
		Metrics:     m,
		Interval:    cfg.OutboxInterval,
		Batch:       cfg.OutboxBatch,
		MaxAttempts: cfg.OutboxMaxAttempts,
	}
	if cfg.KafkaBrokers != "" {
		go func() { _ = dispatcher.Run(ctx) }()
	}

	// métricas e health
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, reg, h.Ping)
	log.Info("metrics/health listening", zap.String("addr", metricsSrv.Addr))

	api := &httpapi.API{
		Log:    log.Named("http"),
		Ledger: h,
		Auth:   auth.NewJWT(cfg.JWTSecret, cfg.JWTTTL),
		WS:     hub.HandleWS,
	}
	apiSrv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("api listening", zap.String("addr", apiSrv.Addr))
		if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("api srv", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = apiSrv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)
}
