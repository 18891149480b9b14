package plugin

import (
	"context"

	"github.com/Pelican-Party/adlad-plugin-google-ad-placement/internal/adbreak"
	"github.com/Pelican-Party/adlad-plugin-google-ad-placement/pkg/logger"
)

// ShowFullScreenAd issues a single non-rewarded ad-break request of type
// "pause". Unavailability is a normal, non-error result; there is no retry.
func (p *Plugin) ShowFullScreenAd(ctx context.Context) (adbreak.Result, error) {
	p.mu.Lock()
	host := p.host
	ready := p.ready
	p.mu.Unlock()

	if !ready || host == nil {
		return adbreak.Result{}, ErrNotInitialized
	}

	log := logger.AdBreak(string(adbreak.TypePause))

	done := make(chan adbreak.PlacementInfo, 1)
	req := &adbreak.Request{
		Type: adbreak.TypePause,
		BeforeAd: func() {
			host.SetNeedsPause(true)
			host.SetNeedsMute(true)
		},
		AfterAd: func() {
			host.SetNeedsPause(false)
			host.SetNeedsMute(false)
		},
		BreakDone: func(info adbreak.PlacementInfo) {
			done <- info
		},
	}

	if err := p.queue.Push(req); err != nil {
		// A rejected request means no ad this time, not a caller error
		log.Warn().Err(err).Msg("Full-screen ad-break request rejected")
		return adbreak.Result{ErrorReason: adbreak.ReasonNoAdAvailable}, nil
	}

	select {
	case <-ctx.Done():
		return adbreak.Result{ErrorReason: adbreak.ReasonUnknown}, ctx.Err()
	case info := <-done:
		if p.metrics != nil {
			p.metrics.RecordAdBreak(string(info.BreakType), string(info.BreakStatus))
		}
		log.Debug().Str("status", string(info.BreakStatus)).Msg("Full-screen attempt settled")
		return adbreak.Translate(info), nil
	}
}
