// Package reconciler keeps rewarded-ad availability in sync with the vendor.
//
// The vendor only reveals whether a rewarded ad is showable via a callback
// nested inside an ad-break request; there is no way to peek. The host wants a
// plain boolean it can consult at any time. The reconciler manufactures that
// boolean by keeping exactly one rewarded request outstanding at all times,
// accepting the inter-attempt cooldown as the worst-case staleness of the flag.
package reconciler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Pelican-Party/adlad-plugin-google-ad-placement/internal/adbreak"
	"github.com/Pelican-Party/adlad-plugin-google-ad-placement/pkg/logger"
)

// DefaultCooldown is the minimum spacing between rewarded ad-break attempts
const DefaultCooldown = 1000 * time.Millisecond

// ErrAlreadyRunning is returned when Run is called on a running reconciler
var ErrAlreadyRunning = errors.New("reconciler is already running")

// HostState receives availability and playback-state updates from the plugin
type HostState interface {
	SetNeedsPause(bool)
	SetNeedsMute(bool)
	SetCanShowRewardedAd(bool)
}

// Recorder records reconciler activity
type Recorder interface {
	RecordAdBreak(breakType, status string)
	RecordRewardOffer()
	RecordAttempt(duration time.Duration)
}

// nopRecorder is used when no metrics are wired
type nopRecorder struct{}

func (nopRecorder) RecordAdBreak(string, string) {}
func (nopRecorder) RecordRewardOffer()           {}
func (nopRecorder) RecordAttempt(time.Duration)  {}

// Config holds reconciler tuning
type Config struct {
	// BreakName labels the rewarded break in vendor reporting
	BreakName string
	// Cooldown is the minimum time between attempts; DefaultCooldown if zero
	Cooldown time.Duration
}

// Reconciler runs the availability loop and serves display-trigger requests.
// Invariant: showFn is non-nil exactly while an offer is live, which mirrors
// the host's canShowRewardedAd flag. pending is non-nil only while a triggered
// show awaits the vendor's completion hook.
type Reconciler struct {
	queue     adbreak.Pusher
	host      HostState
	breakName string
	cooldown  time.Duration
	metrics   Recorder

	running atomic.Bool

	mu      sync.Mutex
	showFn  func()
	pending chan adbreak.PlacementInfo
}

// New creates a reconciler. A nil recorder disables metrics.
func New(queue adbreak.Pusher, host HostState, cfg Config, rec Recorder) *Reconciler {
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultCooldown
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Reconciler{
		queue:     queue,
		host:      host,
		breakName: cfg.BreakName,
		cooldown:  cfg.Cooldown,
		metrics:   rec,
	}
}

// Run drives the availability loop until ctx is cancelled. Only one outstanding
// vendor request exists at a time: the loop body awaits the completion hook
// before starting the next attempt. Vendor failure statuses are never surfaced
// to the caller; they simply mean another attempt after the cooldown.
func (r *Reconciler) Run(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer r.running.Store(false)
	defer r.closeOffer()

	log := logger.Component("reconciler")
	log.Info().Dur("cooldown", r.cooldown).Msg("Availability loop started")

	for {
		start := time.Now()
		done := make(chan adbreak.PlacementInfo, 1)

		req := &adbreak.Request{
			Type: adbreak.TypeReward,
			Name: r.breakName,
			BeforeAd: func() {
				r.host.SetNeedsPause(true)
				r.host.SetNeedsMute(true)
			},
			AfterAd: func() {
				r.host.SetNeedsPause(false)
				r.host.SetNeedsMute(false)
			},
			BeforeReward: r.offer,
			AdDismissed:  func() {},
			AdViewed:     func() {},
			BreakDone: func(info adbreak.PlacementInfo) {
				done <- info
			},
		}

		if err := r.queue.Push(req); err != nil {
			log.Warn().Err(err).Msg("Rewarded ad-break request rejected")
			if err := r.cooldownWait(ctx, start); err != nil {
				return err
			}
			continue
		}

		var info adbreak.PlacementInfo
		select {
		case <-ctx.Done():
			return ctx.Err()
		case info = <-done:
		}

		r.complete(info)

		elapsed := time.Since(start)
		r.metrics.RecordAttempt(elapsed)
		r.metrics.RecordAdBreak(string(adbreak.TypeReward), string(info.BreakStatus))
		log.Debug().
			Str("status", string(info.BreakStatus)).
			Dur("elapsed", elapsed).
			Msg("Rewarded attempt settled")

		if err := r.cooldownWait(ctx, start); err != nil {
			return err
		}
	}
}

// Trigger consumes the live offer, invokes the vendor show function and waits
// for the vendor to report the viewing outcome. With no live offer it fails
// softly with a no-ad-available result; the error is non-nil only when ctx is
// cancelled while waiting.
func (r *Reconciler) Trigger(ctx context.Context) (adbreak.Result, error) {
	r.mu.Lock()
	show := r.showFn
	if show == nil {
		r.mu.Unlock()
		return adbreak.Result{ErrorReason: adbreak.ReasonNoAdAvailable}, nil
	}
	r.showFn = nil
	pending := make(chan adbreak.PlacementInfo, 1)
	r.pending = pending
	r.mu.Unlock()

	// The offer is consumed before the vendor show function runs: a trigger
	// is usable at most once, and the host flag must read false by the time
	// show returns control.
	r.host.SetCanShowRewardedAd(false)
	show()

	select {
	case <-ctx.Done():
		return adbreak.Result{ErrorReason: adbreak.ReasonUnknown}, ctx.Err()
	case info := <-pending:
		return adbreak.Translate(info), nil
	}
}

// CanTrigger reports whether an offer is currently live
func (r *Reconciler) CanTrigger() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.showFn != nil
}

// offer publishes the display trigger for the current attempt
func (r *Reconciler) offer(showAdFn func()) {
	r.mu.Lock()
	r.showFn = showAdFn
	r.mu.Unlock()
	r.host.SetCanShowRewardedAd(true)
	r.metrics.RecordRewardOffer()
}

// complete settles an attempt: resolves any pending trigger with the final
// PlacementInfo and unconditionally closes the offer, stale or not
func (r *Reconciler) complete(info adbreak.PlacementInfo) {
	r.mu.Lock()
	pending := r.pending
	r.pending = nil
	r.showFn = nil
	r.mu.Unlock()

	if pending != nil {
		pending <- info
	}
	r.host.SetCanShowRewardedAd(false)
}

// closeOffer clears any live offer on shutdown so the host flag does not go stale
func (r *Reconciler) closeOffer() {
	r.mu.Lock()
	hadOffer := r.showFn != nil
	r.showFn = nil
	r.mu.Unlock()

	if hadOffer {
		r.host.SetCanShowRewardedAd(false)
	}
}

// cooldownWait suspends until the attempt that began at start is at least one
// cooldown old. Attempts that already ran longer than the cooldown loop
// immediately.
func (r *Reconciler) cooldownWait(ctx context.Context, start time.Time) error {
	remaining := r.cooldown - time.Since(start)
	if remaining <= 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	}

	timer := time.NewTimer(remaining)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
