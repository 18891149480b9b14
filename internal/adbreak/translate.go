package adbreak

import "encoding/json"

// Reason explains why an ad was not shown
type Reason string

const (
	// ReasonNone means the ad was shown; serialized as null
	ReasonNone Reason = ""
	// ReasonTimeConstraint means the vendor frequency cap blocked the ad
	ReasonTimeConstraint Reason = "time-constraint"
	// ReasonUserDismissed means the user closed the ad before completion
	ReasonUserDismissed Reason = "user-dismissed"
	// ReasonNoAdAvailable means the vendor had no ad to show
	ReasonNoAdAvailable Reason = "no-ad-available"
	// ReasonUnknown covers every other vendor status
	ReasonUnknown Reason = "unknown"
)

// MarshalJSON serializes ReasonNone as null to match the host contract
func (r Reason) MarshalJSON() ([]byte, error) {
	if r == ReasonNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(r))
}

// Result is the normalized ad outcome reported to the host
type Result struct {
	DidShowAd   bool   `json:"didShowAd"`
	ErrorReason Reason `json:"errorReason"`
}

// Translate maps a vendor PlacementInfo to the normalized host result.
// Total over all BreakStatus values; unrecognized statuses map to unknown.
func Translate(info PlacementInfo) Result {
	switch info.BreakStatus {
	case StatusViewed:
		return Result{DidShowAd: true, ErrorReason: ReasonNone}
	case StatusFrequencyCapped:
		return Result{ErrorReason: ReasonTimeConstraint}
	case StatusDismissed:
		return Result{ErrorReason: ReasonUserDismissed}
	case StatusNotReady, StatusTimeout, StatusNoAdPreloaded:
		return Result{ErrorReason: ReasonNoAdAvailable}
	default:
		return Result{ErrorReason: ReasonUnknown}
	}
}
