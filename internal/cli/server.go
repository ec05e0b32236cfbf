package cli

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nftmarketd/nftmarketd/internal/config"
	"github.com/nftmarketd/nftmarketd/internal/core/ledger"
	"github.com/nftmarketd/nftmarketd/internal/core/tx"
	"github.com/nftmarketd/nftmarketd/internal/server/jsonrpc"
	"github.com/nftmarketd/nftmarketd/internal/storage"
	"github.com/nftmarketd/nftmarketd/internal/storage/events"
)

const ledgerDBName = "ledger"

// serverCmd represents the server command (default action)
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the marketplace daemon",
	Long: `Start the nftmarketd server which provides:
- HTTP JSON-RPC API for operations and queries
- A background sweep expiring listings and installment plans
- A SQLite journal of domain events

This is the default command when no subcommand is specified.`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// Set server as the default command
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return serverCmd.RunE(cmd, args)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler, cleanup, err := buildHandler(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         cfg.Server.Listen,
		Handler:      jsonrpc.NewServer(handler, log),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.WithField("listen", cfg.Server.Listen).Info("JSON-RPC server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.Sweep.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if err := handler.RunSweep(ctx); err != nil {
					log.WithError(err).Error("expiry sweep failed")
				}
			}
		}
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// buildHandler assembles the storage, ledger, engine and journal behind
// the RPC handler. The returned cleanup closes them in reverse order.
func buildHandler(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*jsonrpc.Handler, func(), error) {
	manager, err := storage.NewManager(cfg.Database.Backend, cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}

	db, err := manager.OpenDB(ledgerDBName)
	if err != nil {
		manager.Close()
		return nil, nil, fmt.Errorf("failed to open ledger database: %w", err)
	}

	l, err := ledger.Open(ctx, db)
	if err != nil {
		manager.Close()
		return nil, nil, fmt.Errorf("failed to open ledger: %w", err)
	}

	entropy := make([]byte, 32)
	if _, err := rand.Read(entropy); err != nil {
		manager.Close()
		return nil, nil, fmt.Errorf("failed to seed entropy: %w", err)
	}

	engine := tx.NewEngine(l, tx.EngineConfig{
		DataDepositPerByte: cfg.Ledger.DataDepositPerByte,
		ListingDeposit:     cfg.Ledger.ListingDeposit,
		ExistentialDeposit: cfg.Ledger.ExistentialDeposit,
		ListingDuration:    cfg.Ledger.ListingDuration,
		RetainBurnt:        cfg.Ledger.RetainBurnt,
		LedgerSequence:     l.Sequence() + 1,
		CloseTime:          uint64(time.Now().Unix()),
		Entropy:            entropy,
	})

	journal, err := events.Open(ctx, cfg.Events.Path)
	if err != nil {
		manager.Close()
		return nil, nil, fmt.Errorf("failed to open event journal: %w", err)
	}

	log.WithFields(logrus.Fields{
		"backend":    cfg.Database.Backend,
		"ledger_seq": l.Sequence(),
	}).Info("ledger opened")

	cleanup := func() {
		if err := journal.Close(); err != nil {
			log.WithError(err).Warn("failed to close event journal")
		}
		if err := manager.Close(); err != nil {
			log.WithError(err).Warn("failed to close database")
		}
	}
	return jsonrpc.NewHandler(l, engine, journal, log), cleanup, nil
}
