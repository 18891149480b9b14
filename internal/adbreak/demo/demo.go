// Package demo implements a simulated vendor SDK that drains ad-break
// requests and plays them out without real demand. This is useful for
// exercising the plugin flow without a live publisher account.
package demo

import (
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Pelican-Party/adlad-plugin-google-ad-placement/internal/adbreak"
)

// ErrInvalidRequest is returned for requests without a completion hook
var ErrInvalidRequest = errors.New("invalid ad-break request: missing completion hook")

// Config controls the simulated vendor behavior
type Config struct {
	// FillRate is the probability an ad is available (0.0-1.0)
	FillRate float64
	// DismissRate is the probability the user dismisses a reward unit early
	DismissRate float64
	// Latency is the simulated vendor decision latency per request
	Latency time.Duration
	// DisplayDuration is how long a simulated ad plays
	DisplayDuration time.Duration
	// OfferTimeout is how long a reward offer stays open before the vendor
	// gives up and completes the break as ignored
	OfferTimeout time.Duration
	// FrequencyCap is the minimum spacing between shown interstitials;
	// zero disables capping
	FrequencyCap time.Duration
	// Seed makes the vendor deterministic in tests; zero seeds from the clock
	Seed int64
}

// DefaultConfig returns vendor settings resembling live behavior
func DefaultConfig() Config {
	return Config{
		FillRate:        0.80,
		DismissRate:     0.20,
		Latency:         50 * time.Millisecond,
		DisplayDuration: 100 * time.Millisecond,
		OfferTimeout:    5 * time.Second,
		FrequencyCap:    0,
	}
}

// Vendor is the simulated SDK. It implements adbreak.Pusher: Push never
// blocks, and every accepted request eventually gets its BreakDone callback.
type Vendor struct {
	cfg Config

	rngMu sync.Mutex
	rng   *rand.Rand

	mu        sync.Mutex
	lastShown time.Time
}

// New creates a simulated vendor
func New(cfg Config) *Vendor {
	if cfg.Latency <= 0 {
		cfg.Latency = DefaultConfig().Latency
	}
	if cfg.DisplayDuration <= 0 {
		cfg.DisplayDuration = DefaultConfig().DisplayDuration
	}
	if cfg.OfferTimeout <= 0 {
		cfg.OfferTimeout = DefaultConfig().OfferTimeout
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Vendor{
		cfg: cfg,
		// #nosec G404 -- math/rand is fine for simulated ad outcomes
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Push accepts a request and plays it out asynchronously
func (v *Vendor) Push(req *adbreak.Request) error {
	if req == nil || req.BreakDone == nil {
		return ErrInvalidRequest
	}
	go v.play(req)
	return nil
}

func (v *Vendor) play(req *adbreak.Request) {
	time.Sleep(v.cfg.Latency)

	if req.Type == adbreak.TypeReward {
		v.playReward(req)
		return
	}
	v.playInterstitial(req)
}

// playInterstitial runs a non-rewarded break to completion
func (v *Vendor) playInterstitial(req *adbreak.Request) {
	info := adbreak.PlacementInfo{
		BreakType:   req.Type,
		BreakName:   req.Name,
		BreakFormat: adbreak.FormatInterstitial,
	}

	if v.capped() {
		info.BreakStatus = adbreak.StatusFrequencyCapped
		req.BreakDone(info)
		return
	}
	if !v.roll(v.cfg.FillRate) {
		info.BreakStatus = adbreak.StatusNoAdPreloaded
		req.BreakDone(info)
		return
	}

	if req.BeforeAd != nil {
		req.BeforeAd()
	}
	time.Sleep(v.cfg.DisplayDuration)
	if req.AfterAd != nil {
		req.AfterAd()
	}

	v.markShown()
	info.BreakStatus = adbreak.StatusViewed
	req.BreakDone(info)
}

// playReward offers a reward unit and waits for the trigger or the offer
// timeout, whichever comes first
func (v *Vendor) playReward(req *adbreak.Request) {
	info := adbreak.PlacementInfo{
		BreakType:   req.Type,
		BreakName:   req.Name,
		BreakFormat: adbreak.FormatReward,
	}

	if !v.roll(v.cfg.FillRate) {
		info.BreakStatus = adbreak.StatusNoAdPreloaded
		req.BreakDone(info)
		return
	}

	if req.BeforeReward == nil {
		// Nobody can ever trigger this break
		info.BreakStatus = adbreak.StatusIgnored
		req.BreakDone(info)
		return
	}

	var consumed int32
	shown := make(chan struct{})
	showFn := func() {
		if atomic.CompareAndSwapInt32(&consumed, 0, 1) {
			close(shown)
		}
	}

	req.BeforeReward(showFn)

	timer := time.NewTimer(v.cfg.OfferTimeout)
	defer timer.Stop()

	select {
	case <-shown:
	case <-timer.C:
		if atomic.CompareAndSwapInt32(&consumed, 0, 1) {
			info.BreakStatus = adbreak.StatusIgnored
			req.BreakDone(info)
			return
		}
		// The trigger raced the timeout; honor it
		<-shown
	}

	if req.BeforeAd != nil {
		req.BeforeAd()
	}
	time.Sleep(v.cfg.DisplayDuration)

	if v.roll(v.cfg.DismissRate) {
		if req.AdDismissed != nil {
			req.AdDismissed()
		}
		info.BreakStatus = adbreak.StatusDismissed
	} else {
		if req.AdViewed != nil {
			req.AdViewed()
		}
		v.markShown()
		info.BreakStatus = adbreak.StatusViewed
	}

	if req.AfterAd != nil {
		req.AfterAd()
	}
	req.BreakDone(info)
}

// roll returns true with probability p
func (v *Vendor) roll(p float64) bool {
	if p >= 1 {
		return true
	}
	if p <= 0 {
		return false
	}
	v.rngMu.Lock()
	defer v.rngMu.Unlock()
	return v.rng.Float64() < p
}

// capped reports whether the interstitial frequency cap is in effect
func (v *Vendor) capped() bool {
	if v.cfg.FrequencyCap <= 0 {
		return false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return !v.lastShown.IsZero() && time.Since(v.lastShown) < v.cfg.FrequencyCap
}

func (v *Vendor) markShown() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lastShown = time.Now()
}
