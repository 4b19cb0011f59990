package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/futsalhub/clubadmin/internal/adapters/backend"
	"github.com/futsalhub/clubadmin/internal/cache"
	"github.com/futsalhub/clubadmin/internal/config"
	"github.com/futsalhub/clubadmin/internal/constants"
	"github.com/futsalhub/clubadmin/internal/logging"
	"github.com/futsalhub/clubadmin/internal/ratelimiting"
	"github.com/futsalhub/clubadmin/internal/render"
	"github.com/futsalhub/clubadmin/internal/reporting"
	"github.com/futsalhub/clubadmin/internal/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	// Root certificates for hosts without a system trust store
	_ "golang.org/x/crypto/x509roots/fallback"
)

func cliVars() kong.Vars {
	return kong.Vars{
		"version":           constants.VERSION,
		"badge_categories":  badgeCategories,
		"badge_grades":      badgeGrades,
		"schedule_statuses": "ALL,PROPOSED,FIRST_VOTE_IN_PROGRESS,FIRST_VOTE_COMPLETED,CONFIRMED,CANCELLED",
		"genders":           "UNCHANGED,MALE,FEMALE,OTHER",
	}
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("clubadmin"),
		kong.Description("Admin console for the futsal club."),
		kong.UsageOnError(),
		cliVars(),
	)
	os.Exit(run(kctx, cli.Debug))
}

// run executes the parsed command and returns the exit code. Cleanup is
// deferred here so that it also runs when the command fails.
func run(kctx *kong.Context, debug bool) int {
	instanceID := uuid.New().String()
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := logging.New(os.Stderr, level).With("instanceID", instanceID)

	config, err := config.ConfigFromEnv()
	if err != nil {
		logger.Error("Failed to load config", "error", err.Error())
		return 1
	}
	logger.Debug("Loaded config", "config", config.NonSensitiveString())

	ctx := logging.AddToContext(context.Background(), logger)

	if config.OTelEnabled() {
		shutdown, err := telemetry.SetupOTelSDK(ctx, "clubadmin", constants.VERSION)
		if err != nil {
			logger.Error("Failed to set up OpenTelemetry", "error", err.Error())
			return 1
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Warn("Failed to shut down OpenTelemetry", "error", err.Error())
			}
		}()
		logger.Debug("Initialized OpenTelemetry")
	}

	flush, err := reporting.NewSentryOrMock(config, constants.VERSION)
	if err != nil {
		logger.Error("Failed to initialize Sentry", "error", err.Error())
		return 1
	}
	defer flush()
	ctx = reporting.AddHubToContext(ctx, kctx.Command())
	ctx = logging.AddMetaToContext(ctx, slog.String("command", kctx.Command()))

	limiter, stopLimiter := ratelimiting.NewTokenBucketRateLimiter(
		ratelimiting.RefillPerSecond(config.RequestsPerSecond()),
		ratelimiting.BurstSize(config.RequestBurst()),
	)
	defer stopLimiter()

	httpClient := &http.Client{
		Timeout:   config.HTTPTimeout(),
		Transport: otelhttp.NewTransport(logging.NewRoundTripLogger(http.DefaultTransport)),
	}

	backendClient, err := backend.NewClient(
		httpClient,
		config.BaseURL(),
		backend.WithLocation(time.Local),
		backend.WithRateLimiter(ratelimiting.NewRequestBasedRateLimiter(limiter, ratelimiting.ResourceKeyFunc)),
	)
	if err != nil {
		logger.Error("Failed to initialize backend client", "error", err.Error())
		return 1
	}

	cacheClient, err := cache.New()
	if err != nil {
		logger.Error("Failed to initialize cache", "error", err.Error())
		return 1
	}

	con := newConsole(
		backendClient,
		cacheClient,
		render.New(os.Stdout, render.ColorEnabled(os.Stdout), time.Local),
		os.Stdin,
		os.Stdout,
		time.Now,
	)
	if token := config.AccessToken(); token != "" {
		con.session.Resume(token)
	}

	kctx.BindTo(ctx, (*context.Context)(nil))
	err = kctx.Run(con)
	cacheClient.Wait()
	if err != nil {
		render.New(os.Stderr, render.ColorEnabled(os.Stderr), time.Local).Error(err)
		return 1
	}
	return 0
}
