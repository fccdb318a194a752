// Command spellgraphd serves the correction pipeline over HTTP.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/az-ai-labs/spellgraph/alphabet"
	"github.com/az-ai-labs/spellgraph/detect"
	"github.com/az-ai-labs/spellgraph/errormodel"
	"github.com/az-ai-labs/spellgraph/internal/config"
	"github.com/az-ai-labs/spellgraph/internal/logging"
	"github.com/az-ai-labs/spellgraph/morphdict"
	"github.com/az-ai-labs/spellgraph/service"
	"github.com/az-ai-labs/spellgraph/spell"
	"github.com/az-ai-labs/spellgraph/store"
)

func main() {
	var configPath string

	root := &cobra.Command{
		Use:          "spellgraphd",
		Short:        "Multilingual spelling correction service",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}
	root.Flags().StringVarP(&configPath, "config", "c", "", "configuration file")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	format := logging.Text
	if cfg.LogFormat == "json" {
		format = logging.JSON
	}
	logger := logging.New(logging.Config{Format: format, Level: cfg.LogLevel})
	log := logging.For(logger, "spellgraphd")

	detector := detect.New()
	if cfg.DetectorPath != "" {
		if err := detector.Load(cfg.DetectorPath); err != nil {
			if !os.IsNotExist(err) {
				return err
			}
			log.WithField("path", cfg.DetectorPath).Info("no detector state yet, starting empty")
		}
	}

	alphabets := alphabet.NewRegistry()
	defaults := errormodel.Default()
	checkers := spell.NewRegistry()

	var stores []*store.Store
	defer func() {
		for _, st := range stores {
			if err := st.Close(); err != nil {
				log.WithError(err).Error("store close failed")
			}
		}
	}()

	var modelFiles []string
	reload := make(map[string]func() error)

	for _, lc := range cfg.Languages {
		st, err := store.Open(store.Options{
			Dir:                 lc.StoreDir,
			SyncMetadataTimeout: time.Duration(cfg.SyncMetadataTimeoutMS) * time.Millisecond,
			Logger:              logger,
		})
		if err != nil {
			return err
		}
		stores = append(stores, st)

		if lc.Alphabet != "" {
			alphabets.RegisterString(lc.Lang, lc.Alphabet)
		}
		if lc.SeedStems {
			n, err := morphdict.Seed(st, lc.Lang)
			if err != nil {
				return err
			}
			log.WithFields(logrus.Fields{"lang": lc.Lang, "stems": n}).Info("seeded stem dictionary")
		}

		model, err := loadModel(lc, defaults)
		if err != nil {
			return err
		}
		checker := spell.New(st, model, lc.Lang)
		if err := checkers.Add(lc.Lang, checker); err != nil {
			return err
		}

		if lc.ReplacePath != "" || lc.AroundPath != "" {
			lc := lc
			doReload := func() error {
				m, err := errormodel.LoadFile(lc.ReplacePath, lc.AroundPath)
				if err != nil {
					return err
				}
				checker.SetModel(m)
				return nil
			}
			for _, p := range []string{lc.ReplacePath, lc.AroundPath} {
				if p != "" {
					modelFiles = append(modelFiles, p)
					reload[p] = doReload
				}
			}
		}
	}

	if len(modelFiles) > 0 {
		watcher, err := config.WatchFiles(modelFiles, log, func(path string) {
			if fn, ok := reload[path]; ok {
				if err := fn(); err != nil {
					log.WithError(err).WithField("path", path).Error("error model reload failed")
				}
			}
		})
		if err != nil {
			return err
		}
		defer watcher.Close()
	}

	srv := service.New(service.Options{
		Detector:     detector,
		Checkers:     checkers,
		DetectorPath: cfg.DetectorPath,
		ProfileSize:  cfg.ProfileSize,
		Logger:       logger,
	})

	httpSrv := &http.Server{Addr: cfg.ListenAddr, Handler: srv.Router()}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.ListenAddr).Info("listening")
		errCh <- httpSrv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.WithField("signal", sig.String()).Info("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(ctx)
}

// loadModel builds lc's error model: explicit mapping files win, then the
// baked-in defaults for known tags, then an empty model.
func loadModel(lc config.Language, defaults *errormodel.Registry) (*errormodel.Model, error) {
	if lc.ReplacePath != "" || lc.AroundPath != "" {
		return errormodel.LoadFile(lc.ReplacePath, lc.AroundPath)
	}
	return defaults.GetOrEmpty(lc.Lang), nil
}
