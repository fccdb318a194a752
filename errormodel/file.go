package errormodel

import (
	"bufio"
	"os"
	"strings"

	"github.com/az-ai-labs/spellgraph/internal/errs"
	"github.com/az-ai-labs/spellgraph/letter"
)

// LoadFile reads a confusion table from the replace and around mapping
// files and returns the combined model. Either path may be empty, leaving
// that half of the model unpopulated.
//
// File format, one mapping per line: the source letter followed by its
// expansion letters, whitespace-separated. Blank lines and lines starting
// with '#' are skipped.
//
//	е и ё
//	о а
func LoadFile(replacePath, aroundPath string) (*Model, error) {
	m := New()
	if replacePath != "" {
		if err := loadInto(replacePath, m.AddReplace); err != nil {
			return nil, err
		}
	}
	if aroundPath != "" {
		if err := loadInto(aroundPath, m.AddAround); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func loadInto(path string, add func(letter.Letter, ...letter.Letter)) error {
	f, err := os.Open(path)
	if err != nil {
		return errs.Wrap(errs.Io, 0, err, "errormodel: open %s", path)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return errs.New(errs.InvalidArgument, 0,
				"errormodel: %s:%d: want source letter plus expansions, got %q", path, lineno, line)
		}
		src := letter.ToLetters(fields[0])
		if len(src) != 1 {
			return errs.New(errs.InvalidArgument, 0,
				"errormodel: %s:%d: source %q is not a single letter", path, lineno, fields[0])
		}
		targets := make([]letter.Letter, 0, len(fields)-1)
		for _, f := range fields[1:] {
			for _, t := range letter.ToLetters(f) {
				targets = append(targets, t)
			}
		}
		add(src[0], targets...)
	}
	if err := sc.Err(); err != nil {
		return errs.Wrap(errs.Io, 0, err, "errormodel: read %s", path)
	}
	return nil
}
