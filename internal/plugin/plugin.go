// Package plugin adapts the vendor Ad Placement API to the host plugin contract
package plugin

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Pelican-Party/adlad-plugin-google-ad-placement/internal/adbreak"
	"github.com/Pelican-Party/adlad-plugin-google-ad-placement/internal/loader"
	"github.com/Pelican-Party/adlad-plugin-google-ad-placement/internal/reconciler"
	"github.com/Pelican-Party/adlad-plugin-google-ad-placement/pkg/logger"
)

// Programming-misuse errors: these indicate incorrect host wiring and are
// never retried
var (
	ErrAlreadyInitialized = errors.New("plugin is already initialized")
	ErrNotInitialized     = errors.New("plugin is not initialized")
)

// Host is the initialization context offered by the host framework
type Host interface {
	SetNeedsPause(bool)
	SetNeedsMute(bool)
	SetCanShowRewardedAd(bool)
	UseTestAds() bool
}

// Config holds per-instance plugin configuration
type Config struct {
	// PublisherID is the vendor publisher account id (required)
	PublisherID string
	// FrequencyHint is an optional interstitial spacing hint, e.g. "30s"
	FrequencyHint string
	// BreakName labels rewarded breaks in vendor reporting
	BreakName string
	// Cooldown overrides the availability loop cooldown; zero means default
	Cooldown time.Duration
}

// Plugin is one adapter instance. All state is per-instance so multiple
// plugins can coexist in one process.
type Plugin struct {
	cfg     Config
	loader  *loader.Loader
	queue   adbreak.Pusher
	metrics reconciler.Recorder

	mu          sync.Mutex
	initialized bool
	ready       bool // initialization completed successfully
	host        Host
	rec         *reconciler.Reconciler
	cancel      context.CancelFunc
	loopDone    chan struct{}
}

// New creates a plugin bound to a vendor command queue and a page script
// injector. A nil recorder disables metrics.
func New(queue adbreak.Pusher, injector loader.Injector, cfg Config, rec reconciler.Recorder) *Plugin {
	return &Plugin{
		cfg:     cfg,
		loader:  loader.New(injector),
		queue:   queue,
		metrics: rec,
	}
}

// Initialize injects the vendor script and arms the availability loop.
// A second call is a programming error and fails fast with
// ErrAlreadyInitialized, without touching the page or the vendor again —
// including after a failed first attempt, since the script injection may
// already have mutated the page.
func (p *Plugin) Initialize(ctx context.Context, host Host) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return ErrAlreadyInitialized
	}
	p.initialized = true
	p.host = host

	log := logger.Component("plugin")

	err := p.loader.Load(ctx, loader.Options{
		PublisherID:   p.cfg.PublisherID,
		FrequencyHint: p.cfg.FrequencyHint,
		TestAds:       host.UseTestAds(),
	})
	if err != nil {
		log.Error().Err(err).Msg("Initialization failed")
		return err
	}

	p.rec = reconciler.New(p.queue, host, reconciler.Config{
		BreakName: p.cfg.BreakName,
		Cooldown:  p.cfg.Cooldown,
	}, p.metrics)

	loopCtx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.loopDone = make(chan struct{})

	rec := p.rec
	go func() {
		defer close(p.loopDone)
		if err := rec.Run(loopCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("Availability loop exited")
		}
	}()

	p.ready = true
	log.Info().
		Str("publisher_id", p.cfg.PublisherID).
		Bool("test_ads", host.UseTestAds()).
		Msg("Plugin initialized")

	return nil
}

// ShowRewardedAd invokes the display trigger for the current reward offer.
// With no live offer the result is a soft {didShowAd:false, no-ad-available};
// it never fails because of vendor unavailability.
func (p *Plugin) ShowRewardedAd(ctx context.Context) (adbreak.Result, error) {
	p.mu.Lock()
	rec := p.rec
	ready := p.ready
	p.mu.Unlock()

	if !ready || rec == nil {
		return adbreak.Result{}, ErrNotInitialized
	}

	return rec.Trigger(ctx)
}

// Close stops the availability loop and waits for it to exit. The original
// adapter never stops its loop (plugin lifetime equals page lifetime); Close
// exists for deterministic teardown in hosts and tests that need it.
func (p *Plugin) Close() {
	p.mu.Lock()
	cancel := p.cancel
	done := p.loopDone
	p.cancel = nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
