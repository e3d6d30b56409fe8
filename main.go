package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apppayment "github.com/Gustavonobregab/fastcv-payments/internal/application/payment"
	"github.com/Gustavonobregab/fastcv-payments/internal/config"
	dompay "github.com/Gustavonobregab/fastcv-payments/internal/domain/payment"
	domprov "github.com/Gustavonobregab/fastcv-payments/internal/domain/provider"
	"github.com/Gustavonobregab/fastcv-payments/internal/infrastructure/id"
	"github.com/Gustavonobregab/fastcv-payments/internal/infrastructure/memory"
	"github.com/Gustavonobregab/fastcv-payments/internal/infrastructure/notify"
	"github.com/Gustavonobregab/fastcv-payments/internal/infrastructure/observability/oteltrace"
	"github.com/Gustavonobregab/fastcv-payments/internal/infrastructure/observability/prometrics"
	"github.com/Gustavonobregab/fastcv-payments/internal/infrastructure/observability/telemetry"
	"github.com/Gustavonobregab/fastcv-payments/internal/infrastructure/observability/zaplogger"
	"github.com/Gustavonobregab/fastcv-payments/internal/infrastructure/outbox"
	"github.com/Gustavonobregab/fastcv-payments/internal/infrastructure/provider/banktransfer"
	"github.com/Gustavonobregab/fastcv-payments/internal/infrastructure/provider/card"
	"github.com/Gustavonobregab/fastcv-payments/internal/infrastructure/provider/pix"
	"github.com/Gustavonobregab/fastcv-payments/internal/observability"
	httppresentation "github.com/Gustavonobregab/fastcv-payments/internal/presentation/http"
)

func main() {
	cfg := config.Load()

	baseLogger := zaplogger.New(
		observability.F("service", cfg.ServiceName),
		observability.F("env", cfg.Env),
	)
	if syncer, ok := baseLogger.(interface{ Sync() error }); ok {
		defer func() { _ = syncer.Sync() }()
	}

	metrics := prometrics.New("fastcv", "payments")
	tel := telemetry.New(
		oteltrace.New(cfg.ServiceName),
		baseLogger,
		map[string]observability.Counter{
			observability.MHTTPRequests: metrics.Counter(
				observability.MHTTPRequests,
				"Total number of HTTP requests.",
				"method", "route", "status",
			),
			observability.MExternalRequests: metrics.Counter(
				observability.MExternalRequests,
				"Total number of requests to external payment processors.",
				"provider", "operation", "outcome",
			),
			observability.MPaymentsCreated: metrics.Counter(
				observability.MPaymentsCreated,
				"Total number of payments created.",
				"method",
			),
			observability.MPaymentTransitions: metrics.Counter(
				observability.MPaymentTransitions,
				"Total number of payment status transitions.",
				"from", "to",
			),
		},
		map[string]observability.Histogram{
			observability.MHTTPRequestDuration: metrics.Histogram(
				observability.MHTTPRequestDuration,
				"Duration of HTTP requests in seconds.",
				prometheus.DefBuckets,
				"method", "route", "status",
			),
			observability.MExternalRequestDuration: metrics.Histogram(
				observability.MExternalRequestDuration,
				"Duration of external processor calls in seconds.",
				prometheus.DefBuckets,
				"provider", "operation",
			),
		},
	)

	bus := outbox.NewBus(baseLogger)
	bus.Start(context.Background())
	defer bus.Stop(context.Background())

	notify.NewWebhook(cfg.WebhookURL, cfg.WebhookTimeout, baseLogger).Start(bus)

	sandbox := banktransfer.NewSandbox()
	sandbox.SetSuccessRate(cfg.SandboxSuccessRate)

	registry := domprov.NewRegistry()
	registry.Register(dompay.MethodPix, pix.NewClient(cfg.PixBaseURL, cfg.PixAPIKey, cfg.ProviderTimeout, baseLogger, tel))
	registry.Register(dompay.MethodCreditCard, card.NewClient(cfg.CardBaseURL, cfg.CardAPIKey, cfg.ProviderTimeout, baseLogger, tel))
	registry.Register(dompay.MethodBankTransfer, sandbox)

	paymentService := apppayment.NewService(
		memory.NewPaymentRepository(),
		registry,
		bus,
		id.NewUUIDGenerator(),
		baseLogger,
		tel,
	)

	handler := httppresentation.NewHandler(paymentService, baseLogger, tel)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", handler.Router())

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("http_server_start", observability.F("addr", server.Addr))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Error("http_server_error", observability.F("error", err.Error()))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("http_server_shutdown_error", observability.F("error", err.Error()))
	} else {
		baseLogger.Info("http_server_stopped")
	}
}
