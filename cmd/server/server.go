package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/Pelican-Party/adlad-plugin-google-ad-placement/internal/adbreak/demo"
	adlconfig "github.com/Pelican-Party/adlad-plugin-google-ad-placement/internal/config"
	"github.com/Pelican-Party/adlad-plugin-google-ad-placement/internal/endpoints"
	"github.com/Pelican-Party/adlad-plugin-google-ad-placement/internal/loader"
	"github.com/Pelican-Party/adlad-plugin-google-ad-placement/internal/metrics"
	"github.com/Pelican-Party/adlad-plugin-google-ad-placement/internal/plugin"
	"github.com/Pelican-Party/adlad-plugin-google-ad-placement/pkg/logger"
)

// Server wires the plugin and the simulated vendor behind HTTP endpoints
type Server struct {
	config     *ServerConfig
	httpServer *http.Server
	metrics    *metrics.Metrics
	plugin     *plugin.Plugin
	host       *hostState
	vendor     *demo.Vendor
}

// NewServer creates a demo server instance
func NewServer(cfg *ServerConfig) (*Server, error) {
	s := &Server{config: cfg}
	s.initialize()
	return s, nil
}

// initialize sets up all server components
func (s *Server) initialize() {
	log := logger.Log

	log.Info().
		Str("port", s.config.Port).
		Str("publisher_id", s.config.PublisherID).
		Bool("test_ads", s.config.TestAds).
		Dur("cooldown", s.config.Cooldown).
		Msg("Initializing ad placement demo server")

	s.metrics = metrics.NewMetrics("adlad")
	s.host = &hostState{testAds: s.config.TestAds}
	s.vendor = demo.New(s.config.ToVendorConfig())
	s.plugin = plugin.New(s.vendor, scriptSink{}, s.config.ToPluginConfig(), s.metrics)

	s.initHandlers()
}

// initHandlers builds the HTTP handler chain
func (s *Server) initHandlers() {
	mux := http.NewServeMux()
	mux.Handle("/ads/fullscreen", endpoints.NewFullScreenHandler(s.plugin))
	mux.Handle("/ads/rewarded", endpoints.NewRewardedHandler(s.plugin))
	mux.Handle("/status", endpoints.NewStatusHandler(s.host))
	mux.Handle("/health", healthHandler())

	// Prometheus metrics endpoint
	mux.Handle("/metrics", metrics.Handler())

	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Port,
		Handler:      s.metrics.Middleware(mux),
		ReadTimeout:  adlconfig.ServerReadTimeout,
		WriteTimeout: adlconfig.ServerWriteTimeout,
		IdleTimeout:  adlconfig.ServerIdleTimeout,
	}
}

// Start initializes the plugin against the simulated vendor and serves HTTP
func (s *Server) Start() error {
	log := logger.Log

	if err := s.plugin.Initialize(context.Background(), s.host); err != nil {
		return fmt.Errorf("plugin initialization failed: %w", err)
	}
	s.host.markInitialized()

	log.Info().Str("addr", s.httpServer.Addr).Msg("Server listening")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the availability loop and drains the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.plugin.Close()
	return s.httpServer.Shutdown(ctx)
}

// healthHandler reports process liveness
func healthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
}

// scriptSink stands in for the page: it accepts the vendor script tag and
// reports success. A real host would insert the tag into the document head.
type scriptSink struct{}

func (scriptSink) InjectScript(_ context.Context, tag loader.Tag) error {
	log := logger.Component("page")
	log.Info().
		Str("src", tag.Src).
		Interface("attrs", tag.Attrs).
		Msg("Script tag injected")
	return nil
}

// hostState implements the host initialization context for the demo server
// and feeds the status endpoint
type hostState struct {
	testAds bool

	mu          sync.Mutex
	initialized bool
	needsPause  bool
	needsMute   bool
	canShow     bool
}

func (h *hostState) SetNeedsPause(v bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.needsPause = v
}

func (h *hostState) SetNeedsMute(v bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.needsMute = v
}

func (h *hostState) SetCanShowRewardedAd(v bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.canShow = v
}

func (h *hostState) UseTestAds() bool { return h.testAds }

func (h *hostState) markInitialized() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.initialized = true
}

// Snapshot implements endpoints.StateSource
func (h *hostState) Snapshot() endpoints.State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return endpoints.State{
		Initialized:       h.initialized,
		CanShowRewardedAd: h.canShow,
		NeedsPause:        h.needsPause,
		NeedsMute:         h.needsMute,
		TestAds:           h.testAds,
	}
}
