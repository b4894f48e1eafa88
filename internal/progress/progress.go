// Package progress classifies a (current, total) pair into a completion
// percentage, an Arabic status label and a display color.
package progress

import "math"

// Status is the Arabic label of a progress bucket
type Status string

const (
	StatusNotStarted Status = "لم يبدأ"
	StatusStarting   Status = "بداية"
	StatusInProgress Status = "قيد التنفيذ"
	StatusAdvanced   Status = "متقدم"
	StatusNearlyDone Status = "شبه مكتمل"
	StatusComplete   Status = "مكتمل"
)

// Color is the display color tag of a progress bucket
type Color string

const (
	ColorGray   Color = "gray"
	ColorRed    Color = "red"
	ColorOrange Color = "orange"
	ColorBlue   Color = "blue"
	ColorTeal   Color = "teal"
	ColorGreen  Color = "green"
)

// Report is the classified progress of a (current, total) pair
type Report struct {
	Percentage float64 `json:"percentage"`
	Status     Status  `json:"status"`
	Color      Color   `json:"color"`
}

// bucket upper bounds are exclusive; a value equal to a bound lands in the next bucket
var buckets = []struct {
	below  float64
	status Status
	color  Color
}{
	{25, StatusStarting, ColorRed},
	{50, StatusInProgress, ColorOrange},
	{75, StatusAdvanced, ColorBlue},
	{100, StatusNearlyDone, ColorTeal},
}

// Classify computes the completion percentage of current against total and buckets it.
// The percentage is clamped to [0, 100] and rounded to one decimal; bucketing uses
// the unrounded value.
func Classify(current, total float64) Report {
	if total == 0 {
		return Report{Percentage: 0, Status: StatusNotStarted, Color: ColorGray}
	}

	p := math.Max(0, math.Min(100, current/total*100))
	if math.IsNaN(p) {
		p = 0
	}

	status, color := bucketOf(p)

	return Report{
		Percentage: math.Round(p*10) / 10,
		Status:     status,
		Color:      color,
	}
}

func bucketOf(p float64) (Status, Color) {
	if p == 0 {
		return StatusNotStarted, ColorGray
	}

	for _, b := range buckets {
		if p < b.below {
			return b.status, b.color
		}
	}

	return StatusComplete, ColorGreen
}
