package detect

import "strings"

// Dynamic-range vocabulary produced by NormalizeDynamicRange.
const (
	RangeSDR         = "SDR"
	RangeHDR10       = "HDR10"
	RangeHDR10Plus   = "HDR10+"
	RangeDolbyVision = "Dolby Vision"
	RangeHLG         = "HLG"
)

// NormalizeDynamicRange maps a raw dynamic-range descriptor onto the
// fixed vocabulary via case-insensitive substring matching. Match
// priority: Dolby Vision, then HDR10+, then HDR10, then HLG; anything
// else (including empty) is SDR.
func NormalizeDynamicRange(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return RangeSDR
	}
	switch {
	case containsAny(value, "dolby vision", "dovi", "vision"):
		return RangeDolbyVision
	case containsAny(value, "hdr10+", "hdr10plus"):
		return RangeHDR10Plus
	case containsAny(value, "hdr10", "hdr", "smpte2084", "bt2020"):
		return RangeHDR10
	case containsAny(value, "hlg", "hybrid"):
		return RangeHLG
	default:
		return RangeSDR
	}
}

func containsAny(value string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(value, needle) {
			return true
		}
	}
	return false
}
