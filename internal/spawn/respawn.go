package spawn

// respawnTimer accumulates time while a point has no live agents and fires
// once the configured delay is reached. A zero delay never fires.
type respawnTimer struct {
	delay   float64
	elapsed float64
}

// Advance adds dt and reports whether the delay was reached. Firing resets the timer.
func (r *respawnTimer) Advance(dt float64) bool {
	if r.delay <= 0 {
		return false
	}
	r.elapsed += dt
	if r.elapsed < r.delay {
		return false
	}
	r.elapsed = 0
	return true
}

// Reset clears accumulated time.
func (r *respawnTimer) Reset() {
	r.elapsed = 0
}

// Elapsed returns accumulated time.
func (r *respawnTimer) Elapsed() float64 {
	return r.elapsed
}
