package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"google.golang.org/grpc"

	"rodeo-drive-api/internal/config"
	"rodeo-drive-api/internal/digest"
	"rodeo-drive-api/internal/grpcweb"
	"rodeo-drive-api/internal/handler"
	"rodeo-drive-api/internal/i18n"
	"rodeo-drive-api/internal/middleware"
	"rodeo-drive-api/internal/notify"
	"rodeo-drive-api/internal/rest"
	"rodeo-drive-api/internal/reveal"
	"rodeo-drive-api/internal/rpc"
	"rodeo-drive-api/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := log.New(os.Stderr, "rodeo: ", log.LstdFlags)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, closeRepo := openStore(ctx, cfg)
	defer closeRepo()

	// notifications
	var mailer notify.Mailer = notify.Nop{}
	sesCtx, cancelSES := context.WithTimeout(ctx, 10*time.Second)
	ses, err := notify.NewSES(sesCtx, cfg.AWSRegion, cfg.SESFrom, logger)
	cancelSES()
	if err != nil {
		log.Printf("ses unavailable, booking mails disabled: %v", err)
	} else {
		mailer = ses
	}
	var texter notify.Texter = notify.Nop{}
	if cfg.TwilioEnabled() {
		texter = notify.NewTwilio(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom, logger)
	}

	h := handler.New(repo, handler.Options{
		Secret:     cfg.JWTSecret,
		AdminEmail: cfg.AdminEmail,
		Inbox:      cfg.SESTo,
		Mailer:     mailer,
		Texter:     texter,
		Logger:     logger,
	})

	gate := middleware.NewGate(cfg.JWTSecret, cfg.AdminEmail)
	rl := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go rl.Run(ctx)

	// grpc server
	srv := grpc.NewServer(
		grpc.ForceServerCodec(rpc.Codec{}),
		grpc.ChainUnaryInterceptor(
			middleware.RateLimit(rl),
			gate.Unary(),
		),
	)
	rpc.RegisterBookingServer(srv, h)

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		log.Fatalf("listen: %v", err)
	}
	go func() {
		log.Printf("grpc on :%s", cfg.GRPCPort)
		if err := srv.Serve(lis); err != nil {
			log.Printf("grpc: %v", err)
		}
	}()

	// site api + grpc-web, same interceptors as the grpc server
	catalog, err := i18n.Load()
	if err != nil {
		log.Fatalf("i18n: %v", err)
	}
	manifest, err := reveal.LoadManifest()
	if err != nil {
		log.Fatalf("reveals: %v", err)
	}
	bridge := grpcweb.New(h, middleware.Chain(middleware.RateLimit(rl), gate.Unary()), cfg.AllowedOrigins, logger)
	api := rest.New(h, gate, rl, catalog, manifest, rest.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		SecureCookies:  cfg.SecureCookies,
		Bridge:         bridge.Handler(),
	})

	httpSrv := &http.Server{
		Addr:              ":" + cfg.WebPort,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("http on :%s", cfg.WebPort)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http: %v", err)
		}
	}()

	// daily digest for the admin
	dg := digest.New(repo, mailer, cfg.AdminEmail, cfg.DigestSchedule, logger)
	if err := dg.Start(); err != nil {
		log.Printf("digest disabled: %v", err)
	} else {
		defer dg.Stop()
	}

	<-ctx.Done()
	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	srv.GracefulStop()
}

// openStore uses postgres when DATABASE_URL is set and a local sqlite file
// otherwise.
func openStore(ctx context.Context, cfg *config.Config) (store.Repository, func()) {
	if cfg.DatabaseURL == "" {
		lite, err := store.OpenLite(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("sqlite: %v", err)
		}
		log.Printf("using sqlite at %s", cfg.SQLitePath)
		return lite, func() { lite.Close() }
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("db ping: %v", err)
	}
	log.Println("connected to postgres")

	pg := store.New(pool)
	if migration, err := os.ReadFile("db/migrations/001_init.sql"); err != nil {
		log.Printf("migration file not found, skipping: %v", err)
	} else if err := pg.Migrate(ctx, string(migration)); err != nil {
		log.Printf("migration warning: %v", err)
	} else {
		log.Println("migration applied")
	}
	return pg, pool.Close
}
