package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ukane-philemon/grades/api"
	"github.com/ukane-philemon/grades/internal/config"
	"github.com/ukane-philemon/grades/internal/db/mongodb"
	"github.com/ukane-philemon/grades/internal/jwt"
)

func main() {
	var isDevMode bool
	var tokenSubject string
	flag.BoolVar(&isDevMode, "dev", false, "Run server in development mode")
	flag.StringVar(&tokenSubject, "token", "", "Print an auth token for the provided subject and exit")
	flag.Parse()

	err := config.LoadEnvFile()
	if err != nil {
		log.Fatalf("config.LoadEnvFile error: %v", err)
	}

	if tokenSubject != "" {
		if err := printToken(tokenSubject); err != nil {
			log.Fatal(err)
		}
		return
	}

	cfg, err := config.Load(isDevMode)
	if err != nil {
		log.Fatalf("config.Load error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := mongodb.New(ctx, cfg.DBName, cfg.DBURL)
	if err != nil {
		log.Fatalf("mongodb.New error: %v", err)
	}

	var jwtManager *jwt.Manager
	if cfg.AuthSecret != "" {
		jwtManager, err = jwt.NewJWTManager([]byte(cfg.AuthSecret))
		if err != nil {
			log.Fatalf("jwt.NewJWTManager error: %v", err)
		}
		log.Println("Write routes require an auth token...")
	}

	handler := api.NewHandler(db, jwtManager)
	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: api.NewRouter(handler, api.RouterConfig{
			RateLimit:      cfg.RateLimit,
			RequestTimeout: cfg.RequestTimeout,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Ensure graceful shutdown by capturing SIGINT and SIGTERM signals.
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)

		shutdownChan := make(chan os.Signal, 1)
		signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
		<-shutdownChan

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelShutdown()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("srv.Shutdown error: %v", err)
		}
		cancel()

		if err := db.Shutdown(shutdownCtx); err != nil {
			log.Printf("db.Shutdown error: %v", err)
		}
	}()

	log.Printf("Server running on port: %s", cfg.Port)

	err = srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Grades API shutdown error: %v", err)
	}

	<-shutdownDone
	log.Println("Grades API shutdown successfully...")
}

// printToken prints a write token signed with GRADES_AUTH_SECRET.
func printToken(subject string) error {
	secret := os.Getenv("GRADES_AUTH_SECRET")
	if secret == "" {
		return errors.New("GRADES_AUTH_SECRET environment variable is not set")
	}

	jwtManager, err := jwt.NewJWTManager([]byte(secret))
	if err != nil {
		return fmt.Errorf("jwt.NewJWTManager error: %w", err)
	}

	token, err := jwtManager.GenerateJWtToken(subject)
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}
