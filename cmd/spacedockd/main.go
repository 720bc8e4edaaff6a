package main

import (
	"context"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/spacedock/spacedock/bolt"
	"github.com/spacedock/spacedock/http"
	"github.com/spacedock/spacedock/jsonweb"
	"github.com/spacedock/spacedock/kit/cli"
	"github.com/spacedock/spacedock/logger"
	"github.com/spacedock/spacedock/tenant"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var flags struct {
	httpBindAddress string
	boltPath        string
	sessionKey      string
	sessionKeyID    string
	logLevel        string
}

func main() {
	prog := &cli.Program{
		Name: "spacedockd",
		Run:  run,
		Opts: []cli.Opt{
			cli.NewOpt(&flags.httpBindAddress, "http-bind-address", ":8087", "bind address for the rest http api"),
			cli.NewOpt(&flags.boltPath, "bolt-path", "spacedock.bolt", "path to the boltdb database"),
			cli.NewOpt(&flags.sessionKey, "session-key", "", "shared key for verifying bearer tokens; bearer auth is disabled when empty"),
			cli.NewOpt(&flags.sessionKeyID, "session-key-id", "default", "key id bearer tokens must name to be verified with the session key"),
			cli.NewOpt(&flags.logLevel, "log-level", "info", "supported log levels are debug, info, warn and error"),
		},
	}

	cmd := cli.NewCommand(prog)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	level, err := zapcore.ParseLevel(flags.logLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	log := logger.New(os.Stdout, level)
	defer log.Sync()

	ctx := context.Background()

	store := bolt.NewKVStore(log.With(zap.String("service", "bolt")), flags.boltPath)
	if err := store.Open(ctx); err != nil {
		log.Error("failed opening bolt", zap.Error(err))
		return err
	}
	defer store.Close()

	ten, err := tenant.NewStore(store)
	if err != nil {
		log.Error("failed initializing tenant store", zap.Error(err))
		return err
	}
	svc := tenant.NewService(ten)

	spaceSvc := tenant.NewSpaceLogger(log.With(zap.String("service", "space")), svc)
	docSvc := tenant.NewDocumentLogger(log.With(zap.String("service", "document")), svc)

	spaceHandler := http.NewSpaceHandler(log.With(zap.String("handler", "space")), spaceSvc, docSvc, svc)

	keyStore := jsonweb.EmptyKeyStore
	if flags.sessionKey != "" {
		key, keyID := []byte(flags.sessionKey), flags.sessionKeyID
		keyStore = jsonweb.KeyStoreFunc(func(kid string) ([]byte, error) {
			if kid != keyID {
				return nil, jsonweb.ErrKeyNotFound
			}
			return key, nil
		})
	}

	r := chi.NewRouter()
	r.Get("/health", http.HealthHandler)
	r.Mount(spaceHandler.Prefix(), spaceHandler)

	ah := http.NewAuthenticationHandler(log.With(zap.String("handler", "auth")), svc, svc, jsonweb.NewTokenParser(keyStore))
	ah.RegisterNoAuthRoute("GET", "/health")
	ah.Handler = r

	srv := &nethttp.Server{
		Addr:    flags.httpBindAddress,
		Handler: ah,
	}

	errCh := make(chan error)
	go func() {
		log.Info("listening", zap.String("transport", "http"), zap.String("addr", flags.httpBindAddress))
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Error("http server error", zap.Error(err))
		return err
	case sig := <-sigCh:
		log.Info("shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
