// Command spellgraph-ingest populates a dictionary store from corpora:
// plain HTML files or a Wikipedia XML dump.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/az-ai-labs/spellgraph/alphabet"
	htmlingest "github.com/az-ai-labs/spellgraph/ingest/html"
	"github.com/az-ai-labs/spellgraph/ingest/wiki"
	"github.com/az-ai-labs/spellgraph/internal/logging"
	"github.com/az-ai-labs/spellgraph/store"
)

type flags struct {
	storeDir    string
	lang        string
	alphabetStr string
	boundary    int64
	workers     int
	syncTimeout int
	logLevel    string
}

func main() {
	var f flags

	root := &cobra.Command{
		Use:          "spellgraph-ingest",
		Short:        "Populate a spellgraph dictionary from corpora",
		SilenceUsage: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&f.storeDir, "store", "", "dictionary store directory (required)")
	pf.StringVar(&f.lang, "lang", "", "language tag for case folding and alphabet filtering")
	pf.StringVar(&f.alphabetStr, "alphabet", "", "permitted letters; empty accepts everything")
	pf.Int64Var(&f.boundary, "boundary", 100, "lower frequency limit; rarer words are not stored")
	pf.IntVar(&f.syncTimeout, "sync-metadata-timeout", 60000, "metadata sync period in milliseconds")
	pf.StringVar(&f.logLevel, "log-level", "info", "log level")
	_ = root.MarkPersistentFlagRequired("store")

	htmlCmd := &cobra.Command{
		Use:   "html <file>...",
		Short: "Ingest HTML documents, one document per file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHTML(f, args)
		},
	}

	wikiCmd := &cobra.Command{
		Use:   "wiki <dump.xml[.bz2]>",
		Short: "Ingest a Wikipedia XML dump",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWiki(f, args[0])
		},
	}
	wikiCmd.Flags().IntVar(&f.workers, "workers", 4, "text parser worker count")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Print dictionary store statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(f)
		},
	}

	root.AddCommand(htmlCmd, wikiCmd, statsCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func openStore(f flags, logger *logrus.Logger) (*store.Store, error) {
	return store.Open(store.Options{
		Dir:                 f.storeDir,
		SyncMetadataTimeout: time.Duration(f.syncTimeout) * time.Millisecond,
		Logger:              logger,
	})
}

func alphabets(f flags) *alphabet.Registry {
	reg := alphabet.NewRegistry()
	if f.alphabetStr != "" {
		reg.RegisterString(f.lang, f.alphabetStr)
	}
	return reg
}

func runHTML(f flags, paths []string) error {
	logger := logging.New(logging.Config{Level: f.logLevel})
	log := logging.For(logger, "ingest.html")

	st, err := openStore(f, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	ing := htmlingest.New(st, alphabets(f), f.lang, logger)
	for _, path := range paths {
		if err := ing.FeedFile(path); err != nil {
			return err
		}
		log.WithField("path", path).Debug("document ingested")
	}

	written, err := ing.Flush(f.boundary)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"documents": len(paths), "written": written}).Info("done")
	return nil
}

func runStats(f flags) error {
	logger := logging.New(logging.Config{Level: f.logLevel})

	st, err := store.Open(store.Options{Dir: f.storeDir, ReadOnly: true, Logger: logger})
	if err != nil {
		return err
	}
	defer st.Close()

	stats, err := st.Stats()
	if err != nil {
		return err
	}
	fmt.Printf("word forms:  %d\n", stats.WordForms)
	fmt.Printf("indexed:     %d\n", stats.Indexed)
	fmt.Printf("ngram keys:  %d\n", stats.NGrams)
	fmt.Printf("transforms:  %d\n", stats.Transforms)
	fmt.Printf("total freq:  %d\n", stats.TotalFreq)
	fmt.Printf("sequence:    %d\n", stats.Sequence)
	return nil
}

func runWiki(f flags, dump string) error {
	logger := logging.New(logging.Config{Level: f.logLevel})
	log := logging.For(logger, "ingest.wiki")

	st, err := openStore(f, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ing := wiki.New(st, wiki.Options{
		Workers:   f.workers,
		Boundary:  f.boundary,
		Lang:      f.lang,
		Alphabets: alphabets(f),
		Logger:    logger,
	})

	written, err := ing.IngestFile(ctx, dump)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"dump": dump, "written": written}).Info("done")
	return nil
}
