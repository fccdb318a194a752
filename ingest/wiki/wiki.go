// Package wiki ingests a Wikipedia XML dump into the dictionary store.
//
// Exactly one goroutine drives the XML token stream and produces elements;
// only <title> and <text> elements carry dictionary words, everything else
// is discarded after parsing. Ready elements go through a bounded channel
// sized at twice the worker count, which blocks the parser when the
// workers fall behind. Each of the N workers accumulates into its own
// partial model; at end of stream the workers drain, the partials merge,
// and the combined model is flushed above the frequency boundary.
package wiki

import (
	"compress/bzip2"
	"context"
	"encoding/xml"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/az-ai-labs/spellgraph/alphabet"
	"github.com/az-ai-labs/spellgraph/ingest"
	"github.com/az-ai-labs/spellgraph/internal/errs"
	"github.com/az-ai-labs/spellgraph/letter"
	"github.com/az-ai-labs/spellgraph/store"
)

// element is one parsed XML element: its local name and accumulated
// character data.
type element struct {
	name  string
	chars string
}

// Options configures a dump ingestion run.
type Options struct {
	Workers  int   // parser-feeding worker count; defaults to 4
	Boundary int64 // minimum frequency for a word to be stored

	Lang      string
	Alphabets *alphabet.Registry
	Logger    *logrus.Logger
}

// Ingester runs Wikipedia dump ingestion for one language.
type Ingester struct {
	store     *store.Store
	alphabets *alphabet.Registry
	lang      string
	workers   int
	boundary  int64
	log       *logrus.Entry
}

// New builds an Ingester writing to st.
func New(st *store.Store, opts Options) *Ingester {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.Alphabets == nil {
		opts.Alphabets = alphabet.NewRegistry()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
	}
	return &Ingester{
		store:     st,
		alphabets: opts.Alphabets,
		lang:      opts.Lang,
		workers:   opts.Workers,
		boundary:  opts.Boundary,
		log:       logger.WithField("component", "ingest.wiki"),
	}
}

// IngestFile opens path (decompressing when it ends in .bz2) and ingests
// the stream. Cancelling ctx stops the run after the elements in flight.
func (i *Ingester) IngestFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errs.Wrap(errs.Io, 0, err, "wiki: open %s", path)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(strings.ToLower(path), ".bz2") {
		r = bzip2.NewReader(f)
	}
	return i.Ingest(ctx, r)
}

// Ingest parses the dump stream, fans elements out to the worker pool,
// merges the per-worker models, and flushes the result. It returns the
// number of words written to the store.
func (i *Ingester) Ingest(ctx context.Context, r io.Reader) (int, error) {
	queue := make(chan element, 2*i.workers)
	models := make([]*ingest.Model, i.workers)

	var wg sync.WaitGroup
	for w := 0; w < i.workers; w++ {
		models[w] = ingest.NewModel()
		wg.Add(1)
		go func(model *ingest.Model) {
			defer wg.Done()
			for {
				select {
				case elm, ok := <-queue:
					if !ok {
						return
					}
					i.accumulate(model, elm)
				case <-ctx.Done():
					return
				}
			}
		}(models[w])
	}

	parseErr := i.parse(ctx, r, queue)
	close(queue)
	wg.Wait()

	if parseErr != nil {
		return 0, parseErr
	}
	if err := ctx.Err(); err != nil {
		return 0, errs.Wrap(errs.Internal, 0, err, "wiki: cancelled")
	}

	merged := ingest.NewModel()
	for _, m := range models {
		merged.Merge(m)
	}

	written, err := merged.Flush(i.store, i.boundary)
	if err != nil {
		return written, err
	}
	i.log.WithFields(logrus.Fields{
		"words":    merged.Len(),
		"written":  written,
		"boundary": i.boundary,
	}).Info("flushed wikipedia model")
	return written, nil
}

// parse walks the XML token stream on the calling goroutine and sends
// title/text elements into queue. Character data belongs to the innermost
// open element, so text inside nested markup is discarded along with the
// element that owns it.
func (i *Ingester) parse(ctx context.Context, r io.Reader, queue chan<- element) error {
	dec := xml.NewDecoder(r)

	var stack []element
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errs.Wrap(errs.EncodingError, 0, err, "wiki: xml parse")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, element{name: t.Name.Local})
		case xml.CharData:
			if n := len(stack); n > 0 {
				stack[n-1].chars += string(t)
			}
		case xml.EndElement:
			n := len(stack)
			if n == 0 {
				continue
			}
			elm := stack[n-1]
			stack = stack[:n-1]
			if elm.name != "title" && elm.name != "text" {
				continue
			}
			select {
			case queue <- elm:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

// accumulate tokenizes one element's character data into model.
func (i *Ingester) accumulate(model *ingest.Model, elm element) {
	for _, tok := range ingest.SplitWords(elm.chars) {
		lw := letter.ToLower(letter.ToLetters(tok), i.lang)
		if !i.alphabets.Ok(i.lang, lw) {
			continue
		}
		model.Observe(lw.String())
	}
}
