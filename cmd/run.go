package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"sigs.k8s.io/yaml"

	"github.com/bigkevmcd/capi-catalog-provider/internal/k8s"
	"github.com/bigkevmcd/capi-catalog-provider/internal/log"
	"github.com/bigkevmcd/capi-catalog-provider/pkg/catalog"
	"github.com/bigkevmcd/capi-catalog-provider/pkg/config"
	"github.com/bigkevmcd/capi-catalog-provider/pkg/provider"
	"github.com/bigkevmcd/capi-catalog-provider/pkg/scheduler"
	"github.com/bigkevmcd/capi-catalog-provider/pkg/status"
)

// newRunCmd creates the Cobra command for starting the provider.
func newRunCmd() *cobra.Command {
	var (
		configPath string
		catalogURL string
		statusAddr string
		dryRun     bool

		// Process-wide fallback schedule for providers that configure none.
		refreshInterval time.Duration
		refreshTimeout  time.Duration

		logOpts = log.NewDefaultOptions()
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the CAPI catalog provider",
		Long: `Start the CAPI catalog provider. Each configured provider connects to its
hub cluster, discovers CAPI Cluster resources on its schedule and submits the
mapped entities to the catalog as a full-replacement set.

With --dry-run, one discovery cycle is performed per provider and the mapped
entities are printed as YAML instead of being submitted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := logOpts.Validate(); err != nil {
				return err
			}
			if !dryRun && catalogURL == "" {
				return fmt.Errorf("--catalog-url is required unless --dry-run is set")
			}

			var defaultSchedule *config.Schedule
			if refreshInterval > 0 {
				defaultSchedule = &config.Schedule{
					Frequency: refreshInterval,
					Timeout:   refreshTimeout,
				}
			}

			return runProviders(configPath, catalogURL, statusAddr, dryRun, defaultSchedule, logOpts)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "config.yaml", "Path to the configuration file")
	cmd.Flags().StringVar(&catalogURL, "catalog-url", "", "Base URL of the catalog API")
	cmd.Flags().StringVar(&statusAddr, "status-addr", ":8080", "Listen address of the status endpoint")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Map one cycle per provider and print the entities instead of submitting")
	cmd.Flags().DurationVar(&refreshInterval, "refresh-interval", 0, "Default refresh frequency for providers without a configured schedule")
	cmd.Flags().DurationVar(&refreshTimeout, "refresh-timeout", 10*time.Minute, "Default per-cycle timeout for providers without a configured schedule")
	logOpts.AddPFlags(cmd.Flags())

	return cmd
}

func runProviders(configPath, catalogURL, statusAddr string, dryRun bool, defaultSchedule *config.Schedule, logOpts log.Options) error {
	logger := log.NewFromOptions(logOpts).Sugar()
	defer func() {
		_ = logger.Sync()
	}()

	v, err := config.Load(configPath)
	if err != nil {
		return err
	}

	providerConfigs, err := config.ResolveProviders(v)
	if err != nil {
		return err
	}
	if len(providerConfigs) == 0 {
		logger.Warnw("no CAPI providers configured, nothing to do")
		return nil
	}

	locator, err := config.ResolveLocator(v)
	if err != nil {
		return err
	}

	// Listen for both SIGINT and SIGTERM for graceful shutdown.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	providers := make([]*provider.CAPIClusterProvider, 0, len(providerConfigs))
	for _, cfg := range providerConfigs {
		clients, err := k8s.BuildClients(cfg.HubClusterName, locator)
		if err != nil {
			return fmt.Errorf("provider %q: %w", cfg.ID, err)
		}

		p, err := provider.New(cfg, clients, defaultSchedule, logger)
		if err != nil {
			return err
		}
		providers = append(providers, p)
	}

	if dryRun {
		return previewProviders(ctx, providers)
	}

	runner := scheduler.NewTickerScheduler(ctx, logger)
	connection := catalog.NewHTTPConnection(catalogURL, logger)

	reporters := make([]status.Reporter, 0, len(providers))
	for _, p := range providers {
		if err := p.Connect(connection, runner); err != nil {
			return err
		}
		reporters = append(reporters, p)
		logger.Infow("provider connected", "provider", p.Name())
	}

	serveStatus(ctx, logger, statusAddr, reporters)

	runner.Wait()
	return nil
}

// previewProviders maps one cycle per provider and prints the entities as a
// YAML stream.
func previewProviders(ctx context.Context, providers []*provider.CAPIClusterProvider) error {
	for _, p := range providers {
		entities, err := p.Preview(ctx)
		if err != nil {
			return fmt.Errorf("provider %s: %w", p.Name(), err)
		}

		for _, entity := range entities {
			out, err := yaml.Marshal(entity)
			if err != nil {
				return fmt.Errorf("failed to marshal entity %q: %w", entity.Metadata.Name, err)
			}
			fmt.Printf("---\n%s", out)
		}
	}

	return nil
}

func serveStatus(ctx context.Context, logger *zap.SugaredLogger, addr string, reporters []status.Reporter) {
	srv := &http.Server{
		Addr:    addr,
		Handler: status.NewHandler(logger, reporters...),
	}

	go func() {
		logger.Infow("status endpoint listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorw("status endpoint failed", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
