package domain

// BandScale maps a discrete domain onto equal-width, unpadded slots across
// [start, end]. Repeated domain values collapse onto their first slot.
type BandScale[T comparable] struct {
	domain []T
	index  map[T]int
	start  float64
	end    float64
}

// NewBandScale builds a band scale over values in first-seen order.
func NewBandScale[T comparable](values []T, start, end float64) BandScale[T] {
	s := BandScale[T]{
		index: make(map[T]int, len(values)),
		start: start,
		end:   end,
	}
	for _, v := range values {
		if _, ok := s.index[v]; ok {
			continue
		}
		s.index[v] = len(s.domain)
		s.domain = append(s.domain, v)
	}
	return s
}

// Domain returns the distinct domain values in slot order.
func (s BandScale[T]) Domain() []T {
	out := make([]T, len(s.domain))
	copy(out, s.domain)
	return out
}

// Range returns the output interval.
func (s BandScale[T]) Range() (start, end float64) {
	return s.start, s.end
}

// Step is the distance between the starts of adjacent slots.
func (s BandScale[T]) Step() float64 {
	if len(s.domain) == 0 {
		return 0
	}
	return (s.end - s.start) / float64(len(s.domain))
}

// Bandwidth is the width of one slot. Without padding it equals Step.
func (s BandScale[T]) Bandwidth() float64 {
	return s.Step()
}

// Position returns the start of v's slot. ok is false when v is not in the domain.
func (s BandScale[T]) Position(v T) (pos float64, ok bool) {
	i, ok := s.index[v]
	if !ok {
		return 0, false
	}
	return s.start + float64(i)*s.Step(), true
}

// Center returns the middle of v's slot, where axis ticks are drawn.
func (s BandScale[T]) Center(v T) (pos float64, ok bool) {
	p, ok := s.Position(v)
	if !ok {
		return 0, false
	}
	return p + s.Bandwidth()/2, true
}

// LinearScale maps [d0, d1] onto [r0, r1] without clamping.
type LinearScale struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinearScale returns a linear scale from domain [d0, d1] to range [r0, r1].
func NewLinearScale(d0, d1, r0, r1 float64) LinearScale {
	return LinearScale{d0: d0, d1: d1, r0: r0, r1: r1}
}

// Scale maps v into the range. A zero-width domain maps everything to the
// middle of the range.
func (s LinearScale) Scale(v float64) float64 {
	t := 0.5
	if s.d1 != s.d0 {
		t = (v - s.d0) / (s.d1 - s.d0)
	}
	return s.r0 + t*(s.r1-s.r0)
}

// Domain returns the input interval.
func (s LinearScale) Domain() (d0, d1 float64) {
	return s.d0, s.d1
}

// Range returns the output interval.
func (s LinearScale) Range() (r0, r1 float64) {
	return s.r0, s.r1
}

// SequentialScale maps a numeric domain onto a color ramp. Values outside
// the domain are passed through to the interpolator, which clamps.
type SequentialScale struct {
	lo, hi      float64
	interpolate Interpolator
}

// NewSequentialScale builds a sequential color scale over [lo, hi].
func NewSequentialScale(lo, hi float64, interpolate Interpolator) SequentialScale {
	return SequentialScale{lo: lo, hi: hi, interpolate: interpolate}
}

// Domain returns the input interval.
func (s SequentialScale) Domain() (lo, hi float64) {
	return s.lo, s.hi
}

// Color returns the ramp color for v. A zero-width domain maps every value
// to the middle of the ramp.
func (s SequentialScale) Color(v float64) string {
	t := 0.5
	if s.hi != s.lo {
		t = (v - s.lo) / (s.hi - s.lo)
	}
	return s.interpolate(t)
}
