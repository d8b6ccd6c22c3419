package kpi

import "github.com/bomino/xlc-bstt-server/config"

// Status levels for threshold classification
const (
	StatusGreen  = "green"
	StatusYellow = "yellow"
	StatusRed    = "red"
)

// Width of the yellow band around each target, in percentage points
const yellowMargin = 5.0

// ClassifyHigherBetter rates a metric where exceeding the target is good,
// e.g. finger rate with target 95: >=95 green, 90-95 yellow, <90 red.
func ClassifyHigherBetter(rate, target float64) string {
	switch {
	case rate >= target:
		return StatusGreen
	case rate >= target-yellowMargin:
		return StatusYellow
	default:
		return StatusRed
	}
}

// ClassifyLowerBetter rates a metric where staying under the target is good,
// e.g. provisional rate with target 1.0.
func ClassifyLowerBetter(rate, target float64) string {
	switch {
	case rate <= target:
		return StatusGreen
	case rate <= target+yellowMargin:
		return StatusYellow
	default:
		return StatusRed
	}
}

// Classifications maps rate names to their status for presentation.
// Pure function of the computed summary; never stored.
func Classifications(summary *Summary, targets config.KPIConfig) map[string]string {
	return map[string]string{
		"finger_rate":      ClassifyHigherBetter(summary.FingerRate, targets.FingerRateTarget),
		"provisional_rate": ClassifyLowerBetter(summary.ProvisionalRate, targets.ProvisionalRateTarget),
		"write_in_rate":    ClassifyLowerBetter(summary.WriteInRate, targets.WriteInRateTarget),
		"missing_co_rate":  ClassifyLowerBetter(summary.MissingCoRate, targets.MissingCoRateTarget),
		"manual_rate":      ClassifyLowerBetter(summary.ManualRate, targets.ManualRateTarget),
	}
}
