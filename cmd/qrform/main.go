// Command qrform serves the QR code form on a local address.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goliatone/go-qrform/pkg/config"
	"github.com/goliatone/go-qrform/pkg/coordinator"
	"github.com/goliatone/go-qrform/pkg/formspec"
	"github.com/goliatone/go-qrform/pkg/generator"
	"github.com/goliatone/go-qrform/pkg/resource"
	"github.com/goliatone/go-qrform/pkg/webui"
)

func main() {
	var (
		addrFlag     = flag.String("addr", "", "listen address (overrides config)")
		endpointFlag = flag.String("endpoint", "", "generation service URL (overrides config)")
		configFlag   = flag.String("config", "", "path to a JSON or YAML config file")
		grace        = flag.Duration("grace", 5*time.Second, "shutdown grace period")
	)
	flag.Parse()

	cfg := config.Default()
	if *configFlag != "" {
		loaded, err := config.Load(*configFlag)
		if err != nil {
			log.Fatalf("config: %v", err)
		}
		cfg = loaded
	}
	if *addrFlag != "" {
		cfg.Listen = *addrFlag
	}
	if *endpointFlag != "" {
		cfg.Endpoint = *endpointFlag
	}

	timeout, err := cfg.RequestTimeout()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	client, err := generator.New(
		generator.WithEndpoint(cfg.Endpoint),
		generator.WithTimeout(timeout),
	)
	if err != nil {
		log.Fatalf("generator: %v", err)
	}

	store := resource.NewStore()
	coord, err := coordinator.New(client, store)
	if err != nil {
		log.Fatalf("coordinator: %v", err)
	}

	op, err := formspec.Load(context.Background())
	if err != nil {
		log.Fatalf("formspec: %v", err)
	}

	server, err := webui.New(coord, store, op, webui.WithThemeVariant(cfg.Theme.Variant))
	if err != nil {
		log.Fatalf("webui: %v", err)
	}

	httpServer := &http.Server{
		Addr:    cfg.Listen,
		Handler: server,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("listening on %s (generation endpoint %s)", cfg.Listen, cfg.Endpoint)
	select {
	case err := <-errCh:
		log.Fatalf("listen: %v", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), *grace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	if err := coord.Close(); err != nil {
		log.Printf("close coordinator: %v", err)
	}
}
