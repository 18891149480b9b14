package demo

import (
	"errors"
	"testing"
	"time"

	"github.com/Pelican-Party/adlad-plugin-google-ad-placement/internal/adbreak"
)

func fastConfig() Config {
	return Config{
		FillRate:        1.0,
		DismissRate:     0.0,
		Latency:         time.Millisecond,
		DisplayDuration: time.Millisecond,
		OfferTimeout:    time.Second,
		Seed:            1,
	}
}

func awaitDone(t *testing.T, done chan adbreak.PlacementInfo) adbreak.PlacementInfo {
	t.Helper()
	select {
	case info := <-done:
		return info
	case <-time.After(2 * time.Second):
		t.Fatal("completion hook never fired")
		return adbreak.PlacementInfo{}
	}
}

func TestPush_InvalidRequest(t *testing.T) {
	v := New(fastConfig())

	if err := v.Push(nil); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for nil request, got %v", err)
	}
	if err := v.Push(&adbreak.Request{Type: adbreak.TypePause}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest without completion hook, got %v", err)
	}
}

func TestInterstitial_Viewed(t *testing.T) {
	v := New(fastConfig())

	done := make(chan adbreak.PlacementInfo, 1)
	hooks := make(chan string, 4)
	err := v.Push(&adbreak.Request{
		Type:      adbreak.TypePause,
		Name:      "level-end",
		BeforeAd:  func() { hooks <- "before" },
		AfterAd:   func() { hooks <- "after" },
		BreakDone: func(info adbreak.PlacementInfo) { done <- info },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info := awaitDone(t, done)
	if info.BreakStatus != adbreak.StatusViewed {
		t.Errorf("expected viewed, got %s", info.BreakStatus)
	}
	if info.BreakType != adbreak.TypePause || info.BreakFormat != adbreak.FormatInterstitial {
		t.Errorf("unexpected placement info: %+v", info)
	}
	if info.BreakName != "level-end" {
		t.Errorf("expected break name to round-trip, got %q", info.BreakName)
	}

	if got := []string{<-hooks, <-hooks}; got[0] != "before" || got[1] != "after" {
		t.Errorf("expected before/after hook order, got %v", got)
	}
}

func TestInterstitial_NoFill(t *testing.T) {
	cfg := fastConfig()
	cfg.FillRate = 0
	v := New(cfg)

	done := make(chan adbreak.PlacementInfo, 1)
	err := v.Push(&adbreak.Request{
		Type:      adbreak.TypePause,
		BeforeAd:  func() { t.Error("BeforeAd fired without an ad") },
		BreakDone: func(info adbreak.PlacementInfo) { done <- info },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if info := awaitDone(t, done); info.BreakStatus != adbreak.StatusNoAdPreloaded {
		t.Errorf("expected noAdPreloaded, got %s", info.BreakStatus)
	}
}

func TestInterstitial_FrequencyCapped(t *testing.T) {
	cfg := fastConfig()
	cfg.FrequencyCap = time.Hour
	v := New(cfg)

	done := make(chan adbreak.PlacementInfo, 1)
	v.Push(&adbreak.Request{
		Type:      adbreak.TypePause,
		BreakDone: func(info adbreak.PlacementInfo) { done <- info },
	})
	if info := awaitDone(t, done); info.BreakStatus != adbreak.StatusViewed {
		t.Fatalf("expected first break viewed, got %s", info.BreakStatus)
	}

	v.Push(&adbreak.Request{
		Type:      adbreak.TypePause,
		BreakDone: func(info adbreak.PlacementInfo) { done <- info },
	})
	if info := awaitDone(t, done); info.BreakStatus != adbreak.StatusFrequencyCapped {
		t.Errorf("expected second break frequencyCapped, got %s", info.BreakStatus)
	}
}

func TestReward_TriggeredAndViewed(t *testing.T) {
	v := New(fastConfig())

	done := make(chan adbreak.PlacementInfo, 1)
	viewed := make(chan struct{}, 1)
	err := v.Push(&adbreak.Request{
		Type: adbreak.TypeReward,
		BeforeReward: func(showAdFn func()) {
			// Trigger immediately, as a host would on user consent
			showAdFn()
		},
		AdViewed:  func() { viewed <- struct{}{} },
		BreakDone: func(info adbreak.PlacementInfo) { done <- info },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info := awaitDone(t, done)
	if info.BreakStatus != adbreak.StatusViewed {
		t.Errorf("expected viewed, got %s", info.BreakStatus)
	}
	if info.BreakFormat != adbreak.FormatReward {
		t.Errorf("expected reward format, got %s", info.BreakFormat)
	}

	select {
	case <-viewed:
	default:
		t.Error("AdViewed hook never fired")
	}
}

func TestReward_Dismissed(t *testing.T) {
	cfg := fastConfig()
	cfg.DismissRate = 1.0
	v := New(cfg)

	done := make(chan adbreak.PlacementInfo, 1)
	dismissed := make(chan struct{}, 1)
	v.Push(&adbreak.Request{
		Type:         adbreak.TypeReward,
		BeforeReward: func(showAdFn func()) { showAdFn() },
		AdDismissed:  func() { dismissed <- struct{}{} },
		BreakDone:    func(info adbreak.PlacementInfo) { done <- info },
	})

	if info := awaitDone(t, done); info.BreakStatus != adbreak.StatusDismissed {
		t.Errorf("expected dismissed, got %s", info.BreakStatus)
	}

	select {
	case <-dismissed:
	default:
		t.Error("AdDismissed hook never fired")
	}
}

func TestReward_OfferExpires(t *testing.T) {
	cfg := fastConfig()
	cfg.OfferTimeout = 20 * time.Millisecond
	v := New(cfg)

	done := make(chan adbreak.PlacementInfo, 1)
	v.Push(&adbreak.Request{
		Type:         adbreak.TypeReward,
		BeforeReward: func(showAdFn func()) {}, // never trigger
		BreakDone:    func(info adbreak.PlacementInfo) { done <- info },
	})

	if info := awaitDone(t, done); info.BreakStatus != adbreak.StatusIgnored {
		t.Errorf("expected ignored after offer expiry, got %s", info.BreakStatus)
	}
}

func TestReward_NoFill(t *testing.T) {
	cfg := fastConfig()
	cfg.FillRate = 0
	v := New(cfg)

	done := make(chan adbreak.PlacementInfo, 1)
	v.Push(&adbreak.Request{
		Type:         adbreak.TypeReward,
		BeforeReward: func(func()) { t.Error("BeforeReward fired without fill") },
		BreakDone:    func(info adbreak.PlacementInfo) { done <- info },
	})

	if info := awaitDone(t, done); info.BreakStatus != adbreak.StatusNoAdPreloaded {
		t.Errorf("expected noAdPreloaded, got %s", info.BreakStatus)
	}
}
