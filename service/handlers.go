package service

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/az-ai-labs/spellgraph/ingest"
	"github.com/az-ai-labs/spellgraph/internal/errs"
	"github.com/az-ai-labs/spellgraph/spell"
)

// request is the shared input envelope: named text blocks to process.
type request struct {
	Request map[string]string `json:"request" binding:"required"`
}

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// token is one word of a text block with its detected language.
type token struct {
	Word      string `json:"word"`
	Language  string `json:"language"`
	Positions []int  `json:"positions,omitempty"`
	Forms     []form `json:"forms,omitempty"`
}

// form is one ranked correction candidate.
type form struct {
	Word       string  `json:"word"`
	Freq       int64   `json:"freq"`
	Similarity float64 `json:"similarity"`
}

func (s *Server) fail(c *gin.Context, handler string, err error) {
	kind := errs.KindOf(err)
	status := kind.HTTPStatus()
	s.metrics.requests.WithLabelValues(handler, strconv.Itoa(status)).Inc()
	if status >= 500 {
		s.log.WithError(err).WithField("handler", handler).Error("request failed")
	}
	c.JSON(status, errorBody{Code: int(kind), Message: err.Error()})
}

func (s *Server) ok(c *gin.Context, handler string, body any) {
	s.metrics.requests.WithLabelValues(handler, "200").Inc()
	c.JSON(http.StatusOK, body)
}

func (s *Server) bindRequest(c *gin.Context, handler string) (map[string]string, bool) {
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, handler, errs.Wrap(errs.InvalidArgument, 0, err, "malformed request body"))
		return nil, false
	}
	return req.Request, true
}

// language resolves the language of one word: a word already present in
// some loaded dictionary wins in checker registration order, otherwise the
// n-gram detector decides.
func (s *Server) language(word string) string {
	start := time.Now()
	defer func() { s.metrics.detects.Observe(time.Since(start).Seconds()) }()

	for _, lang := range s.checkers.Languages() {
		ch, err := s.checkers.Get(lang)
		if err != nil {
			continue
		}
		forms, err := ch.Check(spell.Control{Word: ch.Lower(word), Level: spell.LevelExact})
		if err == nil && len(forms) > 0 {
			return lang
		}
	}

	lang, _ := s.detector.Detect(word)
	return lang
}

func (s *Server) handleTokenize(c *gin.Context) {
	texts, ok := s.bindRequest(c, "tokenize")
	if !ok {
		return
	}

	reply := make(map[string][]token, len(texts))
	for key, text := range texts {
		var tokens []token
		index := make(map[string]int)
		pos := 0
		for _, w := range ingest.SplitWords(text) {
			lower := strings.ToLower(w)
			if i, dup := index[lower]; dup {
				tokens[i].Positions = append(tokens[i].Positions, pos)
			} else {
				index[lower] = len(tokens)
				tokens = append(tokens, token{
					Word:      lower,
					Language:  s.language(lower),
					Positions: []int{pos},
				})
			}
			pos++
		}
		reply[key] = tokens
	}
	s.ok(c, "tokenize", reply)
}

func (s *Server) handleConvert(c *gin.Context) {
	texts, ok := s.bindRequest(c, "convert")
	if !ok {
		return
	}

	reply := make(map[string]gin.H, len(texts))
	for key, text := range texts {
		converted, err := s.convertText(text)
		if err != nil {
			s.fail(c, "convert", err)
			return
		}
		reply[key] = gin.H{"text": converted}
	}
	s.ok(c, "convert", reply)
}

// convertText rewrites every correctable word of text to its top
// dictionary form, preserving all other tokens byte for byte.
func (s *Server) convertText(text string) (string, error) {
	var sb strings.Builder
	sb.Grow(len(text))

	for _, tok := range ingest.SplitAll(text) {
		if !ingest.IsWordToken(tok) {
			sb.WriteString(tok)
			continue
		}

		lang := s.language(strings.ToLower(tok))
		ch, err := s.checkers.Get(lang)
		if err != nil {
			sb.WriteString(tok)
			continue
		}

		corrected, err := ch.CorrectWord(tok, spell.LevelNorvig, 1)
		if err != nil {
			return "", err
		}
		sb.WriteString(corrected)
	}
	return sb.String(), nil
}

func (s *Server) handleErrorCheck(c *gin.Context) {
	level := spell.LevelNorvig
	if q := c.Query("level"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil || v < spell.LevelExact || v > spell.LevelNGram {
			s.fail(c, "error_check", errs.New(errs.InvalidArgument, 0, "level must be 0..3, got %q", q))
			return
		}
		level = v
	}
	maxNum := spell.DefaultMaxNum
	if q := c.Query("max_num"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil || v <= 0 {
			s.fail(c, "error_check", errs.New(errs.InvalidArgument, 0, "max_num must be positive, got %q", q))
			return
		}
		maxNum = v
	}

	// An explicit lang overrides per-word detection; naming an unloaded
	// language is a client error.
	forcedLang := c.Query("lang")
	if forcedLang != "" {
		if _, err := s.checkers.Get(forcedLang); err != nil {
			s.fail(c, "error_check", err)
			return
		}
	}

	texts, ok := s.bindRequest(c, "error_check")
	if !ok {
		return
	}

	reply := make(map[string][]token, len(texts))
	for key, text := range texts {
		var tokens []token
		for _, w := range ingest.SplitWords(text) {
			lower := strings.ToLower(w)

			lang := forcedLang
			if lang == "" {
				lang = s.language(lower)
			}

			tok := token{Word: lower, Language: lang}

			ch, err := s.checkers.Get(lang)
			if err == nil {
				start := time.Now()
				forms, err := ch.Check(spell.Control{Word: ch.Lower(lower), Level: level, MaxNum: maxNum})
				s.metrics.checks.Observe(time.Since(start).Seconds())
				if err != nil {
					s.fail(c, "error_check", err)
					return
				}
				for _, wf := range forms {
					tok.Forms = append(tok.Forms, form{
						Word:       wf.Word,
						Freq:       wf.Freq,
						Similarity: wf.FreqNorm,
					})
				}
			}

			tokens = append(tokens, tok)
		}
		reply[key] = tokens
	}
	s.ok(c, "error_check", reply)
}

func (s *Server) handleAddLanguage(c *gin.Context) {
	lang := c.Param("lang")
	if lang == "" {
		s.fail(c, "add_language", errs.New(errs.InvalidArgument, 0, "empty language tag"))
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		s.fail(c, "add_language", errs.Wrap(errs.Io, 0, err, "read body"))
		return
	}
	if len(body) == 0 {
		s.fail(c, "add_language", errs.New(errs.InvalidArgument, 0, "empty training text"))
		return
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.detector.AddLanguage(lang, string(body), s.profileSize)

	if s.detectorPath != "" {
		if err := s.detector.Save(s.detectorPath); err != nil {
			s.fail(c, "add_language", errs.Wrap(errs.Io, 0, err, "persist detector"))
			return
		}
	}

	s.ok(c, "add_language", gin.H{"language": lang})
}
