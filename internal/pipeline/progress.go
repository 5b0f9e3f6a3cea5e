package pipeline

import "golang.org/x/exp/constraints"

// ProgressIndicator is the 0-100 completion value of one polled stage.
type ProgressIndicator struct {
	value   int
	visible bool
}

// Show makes the indicator visible at zero, as done when a stage is submitted.
func (p *ProgressIndicator) Show() {
	p.visible = true
	p.value = 0
}

// Set stores a clamped completion value.
func (p *ProgressIndicator) Set(value int) {
	p.value = Clamp(value, 0, 100)
}

// Value returns the completion value.
func (p ProgressIndicator) Value() int { return p.value }

// Visible reports whether the indicator is shown.
func (p ProgressIndicator) Visible() bool { return p.visible }

// Percent returns the value as a 0-1 fraction for progress bar widgets.
func (p ProgressIndicator) Percent() float64 {
	return float64(p.value) / 100
}

// Clamp bounds v to [lo, hi].
func Clamp[N constraints.Integer | constraints.Float](v, lo, hi N) N {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
