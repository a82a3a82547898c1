// =============================================================================
// Sales Analytics - Mock API Command
// =============================================================================
//
// This file defines the 'mock-api' command, which serves product metadata on
// the same routes the enricher calls. Point api.base_url at it to exercise
// enrichment without the real product service.
//
// COMMAND USAGE:
//   sales-analytics mock-api [--listen :8081] [--catalog products.xlsx]
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/sales-analytics/internal/catalog"
	"github.com/ginjaninja78/sales-analytics/internal/mockapi"
)

var (
	listenAddr   string
	catalogFile  string
	noSynthesize bool
)

// mockAPICmd represents the 'mock-api' command.
var mockAPICmd = &cobra.Command{
	Use:   "mock-api",
	Short: "Serve product metadata for local development",
	Long: `The mock-api command starts an HTTP server answering GET /api/v1/products/{id}.

Products come from an optional XLSX catalog (ProductID, Name, Category,
Description columns). Ids not in the catalog that look like product ids
(P followed by digits) get generated metadata unless --no-synthesize is set.`,

	SilenceUsage: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("listen") {
			cfg.MockAPI.Listen = listenAddr
		}
		if cmd.Flags().Changed("catalog") {
			cfg.MockAPI.CatalogFile = catalogFile
		}

		var products *catalog.Catalog
		if cfg.MockAPI.CatalogFile != "" {
			products, err = catalog.Load(cfg.MockAPI.CatalogFile)
			if err != nil {
				return fmt.Errorf("failed to load catalog: %w", err)
			}
			log.Printf("Loaded %d products from %s", products.Len(), cfg.MockAPI.CatalogFile)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return serveMockAPI(ctx, cfg.MockAPI.Listen, mockapi.NewRouter(products, !noSynthesize))
	},
}

func init() {
	rootCmd.AddCommand(mockAPICmd)

	mockAPICmd.Flags().StringVar(&listenAddr, "listen", ":8081", "Address to listen on (overrides mock_api.listen)")
	mockAPICmd.Flags().StringVar(&catalogFile, "catalog", "", "XLSX product catalog (overrides mock_api.catalog_file)")
	mockAPICmd.Flags().BoolVar(&noSynthesize, "no-synthesize", false, "Answer 404 for ids not in the catalog")
}

// serveMockAPI runs the server until ctx is cancelled.
func serveMockAPI(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("Mock product API listening on %s", addr)
	log.Printf("  GET    /api/v1/products/{id}")
	log.Printf("  GET    /api/v1/health")

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Printf("Shutting down mock product API")
		return srv.Shutdown(shutdownCtx)
	}
}
