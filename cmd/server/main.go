package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/subo-hems/api/internal/auth"
	"github.com/subo-hems/api/internal/config"
	"github.com/subo-hems/api/internal/menu"
	"github.com/subo-hems/api/internal/router"
	"github.com/subo-hems/api/internal/service"
	"github.com/subo-hems/api/internal/store"
)

func main() {
	cfg := config.Load()

	port := flag.String("port", cfg.Port, "HTTP listen port")
	requirePrepared := flag.Bool("require-prepared", cfg.RequirePrepared, "reject completion while items are unprepared")
	flag.Parse()

	users, err := auth.DefaultDirectory()
	if err != nil {
		log.Fatalf("Unable to build user directory: %v", err)
	}

	catalog := menu.Default()
	orders := store.NewMemoryStore()
	svc := service.NewOrderService(orders, catalog, service.WithPreparedGate(*requirePrepared))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", *port),
		Handler:           router.New(cfg, svc, catalog, users),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Starting server on :%s (prepared gate: %v)", *port, *requirePrepared)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutdown signal received, draining requests...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: shutdown: %v", err)
	}
}
