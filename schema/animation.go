package schema

import "time"

// Animation is the entry timing of one drawn path.
type Animation struct {
	Delay    time.Duration `json:"delay"`
	Duration time.Duration `json:"duration"`
}

// Default entry animations for the two series.
var (
	CurrentAnimation  = Animation{Delay: DefaultAnimationDelay, Duration: DefaultAnimation}
	BaselineAnimation = Animation{Duration: time.Second}
)

// Progress returns how much of the path is drawn after elapsed time, in [0,1].
// The curve is a cubic ease-out.
func (a Animation) Progress(elapsed time.Duration) float64 {
	t := elapsed - a.Delay
	if t <= 0 {
		return 0
	}
	if a.Duration <= 0 || t >= a.Duration {
		return 1
	}
	return EaseOut(float64(t) / float64(a.Duration))
}

// Total is the time until the path is fully drawn.
func (a Animation) Total() time.Duration {
	return a.Delay + a.Duration
}

// EaseOut maps linear progress to a decelerating curve.
func EaseOut(x float64) float64 {
	switch {
	case x <= 0:
		return 0
	case x >= 1:
		return 1
	}
	inv := 1 - x
	return 1 - inv*inv*inv
}
