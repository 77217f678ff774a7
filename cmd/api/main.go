package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"cartpricing/internal/cart"
	"cartpricing/internal/config"
	"cartpricing/internal/db"
	"cartpricing/internal/domain"
	"cartpricing/internal/httpserver"
	"cartpricing/internal/pricing"
	cartstorerepo "cartpricing/internal/repository/cartstore"
	productrepo "cartpricing/internal/repository/product"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	products := productrepo.NewPostgres(dbpool, logger)

	resolver, err := buildResolver(cfg, products, logger)
	if err != nil {
		logger.Fatalf("build resolver: %v", err)
	}

	store := cartstorerepo.NewPostgres(dbpool)
	carts := cart.NewRegistry(resolver, cart.Config{
		MaxItems:         cfg.CartMaxItems,
		RejectDuplicates: cfg.CartRejectDuplicates,
	}, store, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Carts:           carts,
		Products:        products,
		DefaultCurrency: cfg.DefaultCurrency,
		DefaultLocale:   cfg.DefaultLocale,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}

// buildResolver composes the configured resolver chain into the best-price
// resolver. Unknown names are a wiring error, caught at startup.
func buildResolver(cfg config.Config, products productrepo.Repository, logger *log.Logger) (pricing.Resolver, error) {
	registry := domain.NewLoaderRegistry()
	registry.Register("product", productrepo.Loader(products))

	available := map[string]pricing.Resolver{
		"catalog": pricing.NewEntityResolver(registry),
	}

	chain := make([]pricing.Resolver, 0, len(cfg.PriceResolvers))
	for _, name := range cfg.PriceResolvers {
		r, ok := available[name]
		if !ok {
			return nil, errors.New("unknown price resolver: " + name)
		}
		chain = append(chain, r)
	}

	return pricing.NewComposite(logger, chain...), nil
}
