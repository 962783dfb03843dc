package transform

import "time"

// DefaultDoubleClickThreshold is the longest gap between two clicks of a
// double click.
const DefaultDoubleClickThreshold = 250 * time.Millisecond

// DoubleClick detects two clicks closer together than Threshold. The
// second click of a pair resets the detector, so a triple click counts once.
type DoubleClick struct {
	Threshold time.Duration
	last      time.Time
}

// Detect records a click at t and reports whether it completes a double click.
func (d *DoubleClick) Detect(t time.Time) bool {
	threshold := d.Threshold
	if threshold <= 0 {
		threshold = DefaultDoubleClickThreshold
	}
	if !d.last.IsZero() && t.Sub(d.last) < threshold {
		d.last = time.Time{}
		return true
	}
	d.last = t
	return false
}
