package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/klubi/kubesim/internal/apiserver"
	"github.com/klubi/kubesim/internal/cluster"
	"github.com/klubi/kubesim/internal/config"
	"github.com/klubi/kubesim/internal/controller"
	"github.com/klubi/kubesim/internal/store"
	"github.com/klubi/kubesim/pkg/apierrors"
	v1 "github.com/klubi/kubesim/pkg/apis/v1"
	"github.com/klubi/kubesim/pkg/manifest"
)

func newServeCmd() *cobra.Command {
	var (
		port      int
		host      string
		storeType string
		dataDir   string
		seedFile  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the kubesim control plane",
		Long:  "Start the kubesim API server over an in-memory or persistent store.",
		RunE: func(cmd *cobra.Command, args []string) error {
			// 1. Build configuration with CLI overrides.
			cfg := config.DefaultConfig()
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = host
			}
			if cmd.Flags().Changed("store") {
				cfg.Store.Type = storeType
			}
			if cmd.Flags().Changed("data-dir") {
				cfg.Store.DataDir = dataDir
			}

			// 2. Create logger.
			logger, err := newLogger(cfg.Log)
			if err != nil {
				return fmt.Errorf("creating logger: %w", err)
			}
			defer logger.Sync()

			// 3. Open the backend. Persistent stores claim an exclusive lock
			// on the data directory so two servers cannot share one file.
			var (
				backend  store.Backend
				dirLock  *flock.Flock
				location = "(in-memory)"
			)
			switch cfg.Store.Type {
			case "memory":
				backend = store.NewMemoryBackend()

			case "bolt", "sqlite":
				if err := os.MkdirAll(cfg.Store.DataDir, 0755); err != nil {
					return fmt.Errorf("creating data directory %s: %w", cfg.Store.DataDir, err)
				}

				dirLock = flock.New(cfg.LockPath())
				locked, err := dirLock.TryLock()
				if err != nil {
					return fmt.Errorf("locking data directory: %w", err)
				}
				if !locked {
					return fmt.Errorf("data directory %s is in use by another kubesim server", cfg.Store.DataDir)
				}
				defer dirLock.Unlock()

				if cfg.Store.Type == "bolt" {
					location = cfg.DBPath()
					backend, err = store.NewBoltBackend(location)
				} else {
					location = cfg.SQLitePath()
					backend, err = store.NewSQLiteBackend(location)
				}
				if err != nil {
					return fmt.Errorf("opening %s store at %s: %w", cfg.Store.Type, location, err)
				}

			default:
				return fmt.Errorf("unknown store type %q (expected memory, bolt, or sqlite)", cfg.Store.Type)
			}
			defer backend.Close()

			// 4. Create the cluster with the standard simulator table.
			clu := cluster.New(backend,
				cluster.WithSimulators(controller.Simulators(logger)),
				cluster.WithLogger(logger),
			)

			// 5. Optionally seed initial state from a manifest.
			if seedFile != "" {
				if err := seedCluster(clu, seedFile); err != nil {
					return fmt.Errorf("seeding from %s: %w", seedFile, err)
				}
				logger.Info("seeded cluster state", zap.String("file", seedFile))
			}

			// 6. Create and start the API server.
			addr := cfg.ServerAddress()
			apiSrv := apiserver.NewServer(addr, clu, logger)

			banner := color.New(color.FgCyan, color.Bold)
			banner.Println("Kubesim Control Plane")
			fmt.Printf("   API Server: http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
			fmt.Printf("   Store:      %s %s\n", cfg.Store.Type, location)
			fmt.Println()

			errCh := make(chan error, 1)
			go func() {
				if err := apiSrv.Start(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			// 7. Wait for interrupt signal for graceful shutdown.
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case sig := <-sigCh:
				logger.Info("received shutdown signal", zap.String("signal", sig.String()))
			case err := <-errCh:
				logger.Error("API server error", zap.Error(err))
				return err
			}

			fmt.Println()
			logger.Info("shutting down gracefully...")

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()

			if err := apiSrv.Shutdown(shutdownCtx); err != nil {
				logger.Error("API server shutdown error", zap.Error(err))
			}

			logger.Info("kubesim control plane stopped")
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", 7117, "API server port")
	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "API server host")
	cmd.Flags().StringVar(&storeType, "store", "memory", "Store backend: memory|bolt|sqlite")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Data directory for persistent stores (default: ~/.kubesim/data)")
	cmd.Flags().StringVar(&seedFile, "seed", "", "YAML manifest to load into the cluster at startup")

	return cmd
}

// newLogger builds a zap logger from the log configuration.
func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}
	zapCfg.Level = level
	return zapCfg.Build()
}

// seedCluster loads a manifest file into the cluster. Namespaces are
// created first so namespaced resources land in declared namespaces;
// resources already present, as after a restart against a persistent
// store, are overwritten apply-style.
func seedCluster(clu *cluster.Cluster, path string) error {
	resources, err := manifest.ParseFile(path)
	if err != nil {
		return err
	}

	ordered := make([]v1.Object, 0, len(resources))
	for _, resource := range resources {
		if resource.GetTypeMeta().Kind == v1.KindNamespace {
			ordered = append(ordered, resource)
		}
	}
	for _, resource := range resources {
		if resource.GetTypeMeta().Kind != v1.KindNamespace {
			ordered = append(ordered, resource)
		}
	}

	for _, resource := range ordered {
		kind := manifest.StoreKind(resource)
		name := resource.GetObjectMeta().Name
		namespace := resource.GetObjectMeta().Namespace
		if kind == v1.KindNamespace {
			namespace = ""
		} else if namespace == "" {
			namespace = cluster.DefaultNamespace
		}
		_, err := clu.Create(namespace, kind, resource)
		if apierrors.IsConflict(err) {
			// Already present from a previous run against the same
			// persistent store; replace it instead.
			_, err = clu.Update(namespace, kind, name, resource)
		}
		if err != nil {
			return fmt.Errorf("seeding %s %q: %w", kind, name, err)
		}
	}
	return nil
}
