package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mayeul-docq/univia/internal/config"
	"github.com/mayeul-docq/univia/internal/handler"
	"github.com/mayeul-docq/univia/internal/model/catalog"
	surveyservice "github.com/mayeul-docq/univia/internal/service/survey"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	students := loadStudents(cfg.Store.StudentsPath)
	universities := loadUniversities(cfg.Store.UniversitiesPath)
	if len(universities) == 0 {
		log.Fatalf("no universities available from %s", cfg.Store.UniversitiesPath)
	}

	if cfg.AI.Enabled() {
		log.Println("chat model configured, LLM-assisted questioning available")
	} else {
		log.Println("no chat model credentials, using deterministic questions only")
	}

	surveySvc := surveyservice.NewService(
		catalog.NewMemoryStudentStore(students),
		catalog.NewMemoryUniversityStore(universities),
		cfg.AI,
	)
	router := handler.NewRouter(surveySvc)

	startServer(ctx, cfg.Server, router)
}

func loadStudents(path string) []catalog.Student {
	students, err := catalog.LoadStudents(path)
	if err != nil {
		log.Printf("warning: students store unavailable (%v), using seed data", err)
		return catalog.SeedStudents()
	}
	return students
}

func loadUniversities(path string) []catalog.University {
	universities, err := catalog.LoadUniversities(path)
	if err != nil {
		log.Printf("warning: universities store unavailable (%v), using seed data", err)
		return catalog.SeedUniversities()
	}
	return universities
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("UNIVIA backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
