package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"drive-thru/api"
	"drive-thru/bot"
	"drive-thru/config"
	"drive-thru/db"
	"drive-thru/engine"
	"drive-thru/logger"
	"drive-thru/services"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			runMigrate(cfg)
			return
		case "seed":
			runSeed(cfg)
			return
		case "hash-password":
			runHashPassword(os.Args[2:])
			return
		}
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Environment: cfg.Log.Environment})
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("exit", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	var catalogues services.CatalogueProvider
	usePostgres := cfg.Store.CatalogueSource == config.CataloguePostgres
	if usePostgres || cfg.AutoMigrate {
		if err := db.Init(ctx, cfg.DB); err != nil {
			return fmt.Errorf("db: %w", err)
		}
		defer db.Close()
		if cfg.AutoMigrate {
			if err := applyMigrations(ctx, false); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}
	}
	if usePostgres {
		catalogues = services.PostgresCatalogue{}
	} else {
		static, err := services.NewStaticCatalogue(services.SeedCatalogue())
		if err != nil {
			return fmt.Errorf("catalogue: %w", err)
		}
		catalogues = static
	}
	if _, err := catalogues.Catalogue(ctx, cfg.Store.ID); err != nil {
		return fmt.Errorf("catalogue for store %s: %w", cfg.Store.ID, err)
	}

	svc := services.NewOrderService(engine.New(), catalogues, services.NewSessionStore(), services.NewShadowPOS(log), log)
	staff := services.NewStaffAuth(cfg.StaffPasswordHash)
	if !staff.Enabled() {
		log.Warn("STAFF_PASSWORD_HASH not set, availability changes are disabled")
	}

	if cfg.SessionIdleTimeout > 0 {
		go svc.RunExpiry(ctx, cfg.SessionIdleTimeout, expiryInterval(cfg.SessionIdleTimeout))
	}

	opts := api.Options{DefaultStoreID: cfg.Store.ID, CORSOrigins: cfg.HTTP.CORSOrigins}
	router := api.NewRouter(svc, staff, api.NewHubFor(opts.CORSOrigins, log), opts, log)
	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if cfg.Telegram.Token != "" {
		b, err := bot.New(cfg, svc, staff, log)
		if err != nil {
			return fmt.Errorf("bot: %w", err)
		}
		go b.Start(ctx)
		log.Info("telegram bot started")
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("http server listening",
			zap.String("addr", cfg.HTTP.Addr),
			zap.String("mode", cfg.Mode),
			zap.String("catalogue", cfg.Store.CatalogueSource),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func expiryInterval(idle time.Duration) time.Duration {
	if d := idle / 4; d > time.Second {
		return d
	}
	return time.Second
}

func runMigrate(cfg *config.Config) {
	ctx := context.Background()
	if err := db.Init(ctx, cfg.DB); err != nil {
		fmt.Fprintln(os.Stderr, "db:", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := applyMigrations(ctx, true); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}

// runSeed loads the built-in catalogue into the database under STORE_ID.
func runSeed(cfg *config.Config) {
	ctx := context.Background()
	if err := db.Init(ctx, cfg.DB); err != nil {
		fmt.Fprintln(os.Stderr, "db:", err)
		os.Exit(1)
	}
	defer db.Close()

	cat := services.SeedCatalogue()
	if cfg.Store.ID != "" {
		cat.StoreID = cfg.Store.ID
	}
	if err := services.ImportCatalogue(ctx, cat); err != nil {
		fmt.Fprintln(os.Stderr, "seed:", err)
		os.Exit(1)
	}
	fmt.Println("Catalogue", cat.StoreID, "seeded:", len(cat.Products), "products,", len(cat.Rules), "menu rules.")
}

func runHashPassword(args []string) {
	plain := ""
	if len(args) > 0 {
		plain = args[0]
	} else {
		generated, err := services.GenerateStaffPassword()
		if err != nil {
			fmt.Fprintln(os.Stderr, "password:", err)
			os.Exit(1)
		}
		plain = generated
	}
	hash, err := services.HashStaffPassword(plain)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hash:", err)
		os.Exit(1)
	}
	fmt.Println("Password:", plain)
	fmt.Println("STAFF_PASSWORD_HASH=" + hash)
}
