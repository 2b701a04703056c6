package main

import (
	"context"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hyphalab/authkit/modules/account"
	"github.com/hyphalab/authkit/pkg/auth"
	"github.com/hyphalab/authkit/pkg/config"
	"github.com/hyphalab/authkit/pkg/email"
	"github.com/hyphalab/authkit/pkg/httpserver"
	"github.com/hyphalab/authkit/pkg/logger"
	"github.com/hyphalab/authkit/pkg/pg"
	pkgredis "github.com/hyphalab/authkit/pkg/redis"
	storpg "github.com/hyphalab/authkit/storage/postgres"
	storredis "github.com/hyphalab/authkit/storage/redis"
)

type appConfig struct {
	AppURL      string `env:"APP_URL,required"`
	Development bool   `env:"DEV_MODE" envDefault:"false"`

	// ResetTokenStore selects the backend for reset tokens: "postgres"
	// keeps them beside identities, "redis" gives them native TTL.
	ResetTokenStore string `env:"RESET_TOKEN_STORE" envDefault:"postgres"`
	// DevEmailDir receives emails as files when Postmark is not configured.
	DevEmailDir string `env:"DEV_EMAIL_DIR" envDefault:"./tmp/emails"`

	HTTP    httpserver.Config
	PG      pg.Config
	Session auth.SessionConfig
	Account account.Config
}

func main() {
	ctx := context.Background()

	var cfg appConfig
	config.MustLoad(&cfg)

	logOpts := []logger.Option{logger.WithProduction("authkit")}
	if cfg.Development {
		logOpts = []logger.Option{logger.WithDevelopment("authkit")}
	}
	log := logger.New(logOpts...)
	logger.SetAsDefault(log)

	pool, err := pg.Connect(ctx, cfg.PG)
	if err != nil {
		log.Error("failed to connect to postgres", logger.Error(err))
		os.Exit(1)
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, cfg.PG, log); err != nil {
		log.Error("failed to apply migrations", logger.Error(err))
		os.Exit(1)
	}

	identities := storpg.NewIdentityStore(pool)

	readiness := []func(context.Context) error{pg.Healthcheck(pool)}

	var tokens auth.ResetTokenStore
	switch cfg.ResetTokenStore {
	case "redis":
		var redisCfg pkgredis.Config
		config.MustLoad(&redisCfg)
		client, err := pkgredis.Connect(ctx, redisCfg)
		if err != nil {
			log.Error("failed to connect to redis", logger.Error(err))
			os.Exit(1)
		}
		defer func() { _ = client.Close() }()
		tokens = storredis.NewTokenStore(client)
		readiness = append(readiness, pkgredis.Healthcheck(client))
	default:
		tokens = storpg.NewTokenStore(pool)
	}

	var mailer email.EmailSender
	var emailCfg email.Config
	config.MustLoad(&emailCfg)
	if emailCfg.PostmarkServerToken != "" {
		mailer = email.MustNewPostmarkClient(emailCfg)
	} else {
		log.Warn("postmark not configured, writing emails to disk",
			logger.Component("email"))
		mailer = email.NewDevSender(cfg.DevEmailDir)
	}

	reconciler := auth.NewReconciler(identities, auth.WithReconcilerLogger(log))
	resets := auth.NewResetManager(identities, tokens,
		auth.WithResetLogger(log),
		auth.WithResetMailer(mailer, cfg.AppURL),
	)
	sessions, err := auth.NewSessionIssuerFromConfig(cfg.Session)
	if err != nil {
		log.Error("failed to create session issuer", logger.Error(err))
		os.Exit(1)
	}

	accountOpts := []account.Option{
		account.WithLogger(log),
		account.WithConfig(cfg.Account),
	}
	if providers := loadProviders(); len(providers) > 0 {
		accountOpts = append(accountOpts, account.WithProviders(providers...))
	}
	svc := account.NewService(reconciler, resets, sessions, accountOpts...)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", httpserver.HealthCheckHandler(ctx, log))
	r.Get("/readyz", httpserver.HealthCheckHandler(ctx, log, readiness...))
	r.Mount("/auth", svc.Router())

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
	if err := srv.Run(ctx, r); err != nil {
		log.Error("http server stopped", logger.Error(err))
		os.Exit(1)
	}
}

// loadProviders builds adapters for each OAuth provider that has
// credentials in the environment. Providers are optional one by one; a
// deployment can run password-only.
func loadProviders() []auth.ProviderAdapter {
	var providers []auth.ProviderAdapter

	if os.Getenv("GITHUB_OAUTH_CLIENT_ID") != "" {
		var cfg auth.GitHubOAuthConfig
		config.MustLoad(&cfg)
		providers = append(providers, auth.NewGitHubAdapter(cfg))
	}
	if os.Getenv("GOOGLE_OAUTH_CLIENT_ID") != "" {
		var cfg auth.GoogleOAuthConfig
		config.MustLoad(&cfg)
		providers = append(providers, auth.NewGoogleAdapter(cfg))
	}

	return providers
}
