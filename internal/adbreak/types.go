// Package adbreak defines the wire contract of the vendor Ad Placement API
package adbreak

// BreakType identifies where in the application flow an ad break occurs
type BreakType string

const (
	TypePreroll BreakType = "preroll"
	TypeStart   BreakType = "start"
	TypePause   BreakType = "pause"
	TypeNext    BreakType = "next"
	TypeBrowse  BreakType = "browse"
	TypeReward  BreakType = "reward"
)

// BreakFormat is the presentation format the vendor chose for a break
type BreakFormat string

const (
	FormatInterstitial BreakFormat = "interstitial"
	FormatReward       BreakFormat = "reward"
)

// BreakStatus is the terminal status the vendor reports for an attempt
type BreakStatus string

const (
	StatusNotReady        BreakStatus = "notReady"
	StatusTimeout         BreakStatus = "timeout"
	StatusError           BreakStatus = "error"
	StatusNoAdPreloaded   BreakStatus = "noAdPreloaded"
	StatusFrequencyCapped BreakStatus = "frequencyCapped"
	StatusIgnored         BreakStatus = "ignored"
	StatusOther           BreakStatus = "other"
	StatusDismissed       BreakStatus = "dismissed"
	StatusViewed          BreakStatus = "viewed"
)

// PlacementInfo is the outcome of one ad-break attempt.
// The vendor produces exactly one per request; it is never mutated afterwards.
type PlacementInfo struct {
	BreakType   BreakType   `json:"breakType"`
	BreakName   string      `json:"breakName,omitempty"`
	BreakFormat BreakFormat `json:"breakFormat"`
	BreakStatus BreakStatus `json:"breakStatus"`
}

// Request is one entry on the vendor command queue. The vendor SDK drains the
// queue asynchronously and invokes the callback fields as the break progresses.
// BreakDone always eventually fires, whether or not an ad was shown.
type Request struct {
	// Type selects the break placement; Name is an optional label for reporting
	Type BreakType
	Name string

	// BeforeAd and AfterAd bracket the ad display so the host can
	// pause/mute surrounding content and restore it afterwards
	BeforeAd func()
	AfterAd  func()

	// BeforeReward fires when a reward unit is ready to be shown on user
	// action; showAdFn triggers the actual display and must be called at
	// most once
	BeforeReward func(showAdFn func())

	// AdDismissed and AdViewed report how a reward unit ended
	AdDismissed func()
	AdViewed    func()

	// BreakDone is the completion hook, carrying the final PlacementInfo
	BreakDone func(info PlacementInfo)
}

// Pusher abstracts the vendor's global command queue. Implementations must not
// block in Push; callback invocation happens asynchronously.
type Pusher interface {
	Push(req *Request) error
}
