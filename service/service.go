// Package service exposes the correction pipeline over HTTP: tokenization
// with per-token language tags, whole-text conversion to dictionary forms,
// ranked error checking, and online detector training.
package service

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/az-ai-labs/spellgraph/detect"
	"github.com/az-ai-labs/spellgraph/spell"
)

// DefaultProfileSize is the ranked-profile size used when training the
// detector through the add-language endpoint.
const DefaultProfileSize = 3000

// Options configures a Server.
type Options struct {
	Detector     *detect.Detector
	Checkers     *spell.Registry
	DetectorPath string // where add_language persists the detector; empty disables persistence
	ProfileSize  int    // detector profile size K; DefaultProfileSize when <= 0
	Logger       *logrus.Logger
}

// Server holds the request handlers and their shared state.
type Server struct {
	detector *detect.Detector
	checkers *spell.Registry
	log      *logrus.Entry

	profileSize int

	// saveMu serializes detector training with its save-to-file.
	saveMu       sync.Mutex
	detectorPath string

	metrics *metrics
}

type metrics struct {
	requests *prometheus.CounterVec
	checks   prometheus.Histogram
	detects  prometheus.Histogram
}

var (
	metricsOnce   sync.Once
	sharedMetrics *metrics
)

// newMetrics registers the service collectors once per process; gin test
// servers in one binary share them.
func newMetrics() *metrics {
	metricsOnce.Do(func() {
		sharedMetrics = &metrics{
			requests: promauto.NewCounterVec(prometheus.CounterOpts{
				Namespace: "spellgraph",
				Name:      "requests_total",
				Help:      "HTTP requests by handler and status.",
			}, []string{"handler", "status"}),
			checks: promauto.NewHistogram(prometheus.HistogramOpts{
				Namespace: "spellgraph",
				Name:      "check_duration_seconds",
				Help:      "Spell check latency per word.",
			}),
			detects: promauto.NewHistogram(prometheus.HistogramOpts{
				Namespace: "spellgraph",
				Name:      "detect_duration_seconds",
				Help:      "Language detection latency per word.",
			}),
		}
	})
	return sharedMetrics
}

// New builds a Server.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
	}
	if opts.ProfileSize <= 0 {
		opts.ProfileSize = DefaultProfileSize
	}
	return &Server{
		detector:     opts.Detector,
		checkers:     opts.Checkers,
		detectorPath: opts.DetectorPath,
		profileSize:  opts.ProfileSize,
		log:          logger.WithField("component", "service"),
		metrics:      newMetrics(),
	}
}

// Router returns the HTTP routing table.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/tokenize", s.handleTokenize)
	r.POST("/convert", s.handleConvert)
	r.POST("/error_check", s.handleErrorCheck)
	r.POST("/add_language/:lang", s.handleAddLanguage)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
