// cmd/latencyreport/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xaim-test/apim-genai-gateway-toolkit/internal/config"
	"github.com/xaim-test/apim-genai-gateway-toolkit/internal/insights"
	"github.com/xaim-test/apim-genai-gateway-toolkit/internal/logger"
	"github.com/xaim-test/apim-genai-gateway-toolkit/internal/metrics"
	"github.com/xaim-test/apim-genai-gateway-toolkit/internal/portal"
	"github.com/xaim-test/apim-genai-gateway-toolkit/internal/queries"
	"github.com/xaim-test/apim-genai-gateway-toolkit/internal/report"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	since := flag.Duration("since", 10*time.Minute, "how far back the test window starts")
	skipWait := flag.Bool("skip-wait", false, "skip waiting for telemetry ingestion")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Server.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	appID := insights.ParseAppID(cfg.Insights.ConnectionString)
	if appID == "" {
		log.Fatal("no ApplicationId in connection string; set APP_INSIGHTS_CONNECTION_STRING")
	}

	credential, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		log.Fatal("create credential", zap.Error(err))
	}

	collector := metrics.NewCollector()
	if cfg.Server.MetricsPort > 0 {
		router := chi.NewRouter()
		router.Handle("/metrics", collector.Handler())
		addr := fmt.Sprintf(":%d", cfg.Server.MetricsPort)
		go func() {
			log.Info("serving metrics", zap.String("addr", addr))
			if err := http.ListenAndServe(addr, router); err != nil {
				log.Warn("metrics listener stopped", zap.Error(err))
			}
		}()
	}

	client, err := insights.NewClient(insights.ClientConfig{
		AppID:    appID,
		Endpoint: cfg.Insights.Endpoint,
		Metrics:  collector,
	}, credential, log)
	if err != nil {
		log.Fatal("create insights client", zap.Error(err))
	}

	ctx := context.Background()
	stop := time.Now().UTC()
	start := stop.Add(-*since)

	if !*skipWait {
		waiter := insights.NewWaiter(client, insights.WaiterConfig{
			MaxAttempts: cfg.Waiter.MaxAttempts,
			Interval:    cfg.Waiter.Interval,
			Metrics:     collector,
		}, log)

		probe := queries.RecordCountSince(queries.MetricRequestLatency, stop.Add(-10*time.Second))
		if err := waiter.WaitForData(ctx, probe); err != nil {
			log.Fatal("telemetry never became available", zap.Error(err))
		}
	}

	runner := report.NewRunner(client, portal.Links{
		TenantID:       cfg.Portal.TenantID,
		SubscriptionID: cfg.Portal.SubscriptionID,
		ResourceGroup:  cfg.Portal.ResourceGroup,
		ComponentName:  cfg.Portal.ComponentName,
	}, os.Stdout, log)

	roles := queries.BackendRoles{
		Primary:   config.GetEnvOrDefault("BACKEND_ROLE_PRIMARY", "aoaisim-gwsl-dev-payg1"),
		Secondary: config.GetEnvOrDefault("BACKEND_ROLE_SECONDARY", "aoaisim-gwsl-dev-payg2"),
	}
	queries.StandardReport(runner, roles, start, stop)

	if failures := runner.RunAll(ctx); failures > 0 {
		log.Error("report finished with failures", zap.Int("failures", failures))
		os.Exit(1)
	}
}
