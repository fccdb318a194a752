// Package html ingests plain HTML documents into the dictionary store:
// visible text is extracted, lowercased, split on word boundaries,
// filtered through the punctuation drop class and the language's alphabet,
// and counted into a per-run model that is flushed above a frequency
// boundary. The ingester is single-threaded.
package html

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	xhtml "golang.org/x/net/html"

	"github.com/az-ai-labs/spellgraph/alphabet"
	"github.com/az-ai-labs/spellgraph/ingest"
	"github.com/az-ai-labs/spellgraph/internal/errs"
	"github.com/az-ai-labs/spellgraph/letter"
	"github.com/az-ai-labs/spellgraph/store"
)

// Ingester accumulates word counts from HTML documents for one language.
type Ingester struct {
	store     *store.Store
	alphabets *alphabet.Registry
	lang      string
	model     *ingest.Model
	log       *logrus.Entry
}

// New builds an Ingester writing to st. alphabets may be nil, in which
// case no alphabet filtering is applied.
func New(st *store.Store, alphabets *alphabet.Registry, lang string, logger *logrus.Logger) *Ingester {
	if logger == nil {
		logger = logrus.New()
	}
	if alphabets == nil {
		alphabets = alphabet.NewRegistry()
	}
	return &Ingester{
		store:     st,
		alphabets: alphabets,
		lang:      lang,
		model:     ingest.NewModel(),
		log:       logger.WithField("component", "ingest.html"),
	}
}

// FeedFile reads one HTML file and counts its words.
func (i *Ingester) FeedFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errs.Wrap(errs.Io, 0, err, "html: open %s", path)
	}
	defer f.Close()
	return i.Feed(f)
}

// Feed extracts text from one HTML document and counts its words.
func (i *Ingester) Feed(r io.Reader) error {
	doc, err := xhtml.Parse(r)
	if err != nil {
		return errs.Wrap(errs.EncodingError, 0, err, "html: parse")
	}

	var text strings.Builder
	extractText(doc, &text)

	extracted, err := letter.ToLettersChecked(text.String())
	if err != nil {
		return err
	}

	for _, tok := range ingest.SplitWords(extracted.String()) {
		lw := letter.ToLower(letter.ToLetters(tok), i.lang)
		if !i.alphabets.Ok(i.lang, lw) {
			continue
		}
		i.model.Observe(lw.String())
	}
	return nil
}

// Flush writes the accumulated model into the store, discarding words with
// freq below boundary, and resets the model for the next run.
func (i *Ingester) Flush(boundary int64) (int, error) {
	written, err := i.model.Flush(i.store, boundary)
	if err != nil {
		return written, err
	}
	i.log.WithFields(logrus.Fields{
		"words":    i.model.Len(),
		"written":  written,
		"boundary": boundary,
	}).Info("flushed html model")
	i.model = ingest.NewModel()
	return written, nil
}

// Words returns the number of distinct words accumulated so far.
func (i *Ingester) Words() int { return i.model.Len() }

// extractText walks the parse tree collecting text nodes, skipping script
// and style subtrees, with a space between adjacent nodes.
func extractText(n *xhtml.Node, out *strings.Builder) {
	if n.Type == xhtml.ElementNode && (n.Data == "script" || n.Data == "style") {
		return
	}
	if n.Type == xhtml.TextNode {
		out.WriteString(n.Data)
		out.WriteByte(' ')
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractText(c, out)
	}
}
