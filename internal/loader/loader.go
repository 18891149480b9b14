// Package loader builds and injects the vendor SDK script tag
package loader

import (
	"context"
	"errors"
	"fmt"

	"github.com/Pelican-Party/adlad-plugin-google-ad-placement/pkg/logger"
)

// ScriptSrc is the vendor SDK script URL
const ScriptSrc = "https://pagead2.googlesyndication.com/pagead/js/adsbygoogle.js"

// ErrMissingPublisherID is returned when no publisher id was configured
var ErrMissingPublisherID = errors.New("publisher id is required")

// Tag describes the script element inserted into the page head
type Tag struct {
	Src         string
	Async       bool
	CrossOrigin string
	Attrs       map[string]string
}

// Injector inserts a script tag into the page environment and reports
// load success or failure. Implemented by the host page bridge.
type Injector interface {
	InjectScript(ctx context.Context, tag Tag) error
}

// Options configure the vendor embed snippet
type Options struct {
	// PublisherID is the vendor publisher account id (ca-pub-…)
	PublisherID string
	// FrequencyHint suggests a minimum interval between interstitials, e.g. "30s"
	FrequencyHint string
	// TestAds requests test creatives instead of live demand
	TestAds bool
}

// Loader injects the vendor script exactly once per plugin instance.
// The once-only guarantee is enforced by the plugin's initialization guard,
// not here; Load itself is a plain one-shot operation.
type Loader struct {
	injector Injector
}

// New creates a script loader backed by the given injector
func New(injector Injector) *Loader {
	return &Loader{injector: injector}
}

// BuildTag constructs the vendor embed tag for the given options
func BuildTag(opts Options) Tag {
	attrs := map[string]string{
		"data-ad-client": opts.PublisherID,
	}
	if opts.FrequencyHint != "" {
		attrs["data-ad-frequency-hint"] = opts.FrequencyHint
	}
	if opts.TestAds {
		attrs["data-adbreak-test"] = "on"
	}

	return Tag{
		Src:         ScriptSrc,
		Async:       true,
		CrossOrigin: "anonymous",
		Attrs:       attrs,
	}
}

// Load builds the script tag and hands it to the injector. The injector's
// error is surfaced to the caller; there is no retry.
func (l *Loader) Load(ctx context.Context, opts Options) error {
	log := logger.Component("loader")

	if opts.PublisherID == "" {
		return ErrMissingPublisherID
	}

	tag := BuildTag(opts)
	if err := l.injector.InjectScript(ctx, tag); err != nil {
		return fmt.Errorf("ad placement script failed to load: %w", err)
	}

	log.Info().
		Str("publisher_id", opts.PublisherID).
		Str("frequency_hint", opts.FrequencyHint).
		Bool("test_ads", opts.TestAds).
		Msg("Vendor script loaded")

	return nil
}
