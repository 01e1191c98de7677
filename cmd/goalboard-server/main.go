package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sourcegraph/conc/pool"

	server "github.com/kazz187/goalboard/internal"
	"github.com/kazz187/goalboard/internal/config"
	"github.com/kazz187/goalboard/internal/eventbus"
	"github.com/kazz187/goalboard/internal/generation"
	"github.com/kazz187/goalboard/internal/goal"
	goalrepo "github.com/kazz187/goalboard/internal/goal/repositoryimpl"
	"github.com/kazz187/goalboard/pkg/cerr"
	"github.com/kazz187/goalboard/pkg/clog"
	"github.com/kazz187/goalboard/pkg/panicerr"
	"github.com/kazz187/goalboard/pkg/storage"
)

func main() {
	env, err := config.LoadEnv()
	if err != nil {
		slog.Error("failed to load env", "error", err)
		os.Exit(1)
	}

	// Setup logger
	level := env.SlogLevel()
	var handler slog.Handler
	if env.Env == "local" {
		handler = clog.NewTextHandler(os.Stderr, clog.WithLevel(level))
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(clog.NewAttributesHandler(handler)))

	// Graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	// Setup event bus
	bus := eventbus.New()

	// Setup board
	genEnv := config.GenerationEnvFromEnv(env)
	board := goal.NewBoard(
		goal.WithName(env.BoardEnv.Name),
		goal.WithEventBus(bus),
		goal.WithGenerator(generation.NewClient(genEnv.URL, genEnv.Timeout)),
	)

	// Setup storage
	docRepo, err := newDocumentRepository(ctx, config.StorageEnvFromEnv(env))
	if err != nil {
		slog.Error("failed to create storage", "error", err)
		os.Exit(1)
	}
	if docRepo != nil {
		if err := restoreBoard(ctx, board, docRepo); err != nil {
			slog.Error("failed to restore board", "error", err)
			os.Exit(1)
		}
	}

	srv := server.NewServer(env, goal.NewServer(board, bus))

	p := pool.New().WithContext(ctx).WithCancelOnError()
	if docRepo != nil {
		saver := goal.NewSaver(board, docRepo, bus)
		p.Go(panicerr.SafeContext(saver.Start))
	}
	p.Go(panicerr.SafeContext(func(ctx context.Context) error {
		if err := srv.ListenAndServe(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}))
	p.Go(func(ctx context.Context) error {
		<-ctx.Done()
		slog.Info("shutting down server")

		// Give active connections time to finish after stream contexts are cancelled.
		shutdownCtx, shutdownCancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := p.Wait(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func newDocumentRepository(ctx context.Context, env *config.StorageEnv) (goal.DocumentRepository, error) {
	var store storage.Storage
	var err error
	switch env.Type {
	case "s3":
		store, err = storage.NewS3Storage(ctx, env.S3Bucket, env.S3Prefix, env.S3Region)
	case "local":
		store, err = storage.NewLocalStorage(env.BaseDir)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return goalrepo.NewYAMLRepository(store, "default"), nil
}

func restoreBoard(ctx context.Context, board *goal.Board, repo goal.DocumentRepository) error {
	doc, err := repo.Load(ctx)
	if cerr.IsCode(err, cerr.NotFound) {
		slog.Info("no saved board, starting empty")
		return nil
	}
	if err != nil {
		return err
	}
	if err := board.Restore(ctx, doc); err != nil {
		return err
	}
	slog.Info("board restored", "name", doc.Name, "tasks", len(doc.Tasks), "version", doc.Version)
	return nil
}
