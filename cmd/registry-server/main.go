package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/benbjohnson/clock"
	"github.com/urfave/cli/v2"

	"github.com/ruteri/memory-registry-backend/cmd/flags"
	"github.com/ruteri/memory-registry-backend/common"
	"github.com/ruteri/memory-registry-backend/httpserver"
	"github.com/ruteri/memory-registry-backend/metrics"
	"github.com/ruteri/memory-registry-backend/registry"
	"github.com/ruteri/memory-registry-backend/storage"
)

var serverFlags = []cli.Flag{
	flags.ListenAddrFlag,
	flags.MetricsAddrFlag,
	flags.StorageURIFlag,
	flags.LogJSONFlag,
	flags.LogDebugFlag,
	flags.LogUIDFlag,
	flags.LogServiceFlag,
	flags.PprofFlag,
	flags.DrainSecondsFlag,
}

func main() {
	app := &cli.App{
		Name:    "registry-server",
		Usage:   "Serve the memory registry API",
		Version: common.Version,
		Flags:   serverFlags,
		Action: func(cCtx *cli.Context) error {
			logger := flags.SetupLogger(cCtx)

			storeFactory := storage.NewStoreFactory(logger)
			store, err := storeFactory.StoreFor(cCtx.String(flags.StorageURIFlag.Name))
			if err != nil {
				return fmt.Errorf("could not create registry store: %w", err)
			}
			logger.Info("Registry store configured",
				"store", store.Name(),
				"locationURI", store.LocationURI())

			service := registry.NewService(store, storage.DefaultLocationPolicy(), clock.New(), logger)

			m := metrics.New(common.PackageName)
			handler := httpserver.NewHandler(service, m, logger)

			srv, err := httpserver.New(flags.ConfigureServer(cCtx, logger), handler, m)
			if err != nil {
				return fmt.Errorf("could not create HTTP server: %w", err)
			}

			srv.RunInBackground()

			exit := make(chan os.Signal, 1)
			signal.Notify(exit, os.Interrupt, syscall.SIGTERM)
			<-exit

			logger.Info("Shutting down")
			srv.Shutdown()
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
