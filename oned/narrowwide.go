package oned

import "math"

// BarAndSpace is a pair of values indexed by run parity: even positions in a
// counter window are bars, odd positions are spaces. The zero value is the
// invalid sentinel.
type BarAndSpace struct {
	Bar, Space int
}

// IsValid reports whether both values have been set.
func (bs BarAndSpace) IsValid() bool {
	return bs.Bar > 0 && bs.Space > 0
}

// index returns the field addressed by the parity of i.
func (bs *BarAndSpace) index(i int) *int {
	if i&1 == 0 {
		return &bs.Bar
	}
	return &bs.Space
}

// NarrowWideThreshold calculates per-channel width thresholds separating
// narrow from wide bars and spaces. This is useful for codes like Codabar,
// Code39 and ITF where wide runs are between 2 and 3 times as wide as the
// narrow ones. The invalid (zero) BarAndSpace is returned when the run
// widths are implausible for a two-width code.
func NarrowWideThreshold(counters []int) BarAndSpace {
	m := BarAndSpace{math.MaxInt32, math.MaxInt32}
	M := BarAndSpace{0, 0}
	for i, c := range counters {
		if c < *m.index(i) {
			*m.index(i) = c
		}
		if c > *M.index(i) {
			*M.index(i) = c
		}
	}

	var res BarAndSpace
	for i := 0; i < 2; i++ {
		mi, Mi := *m.index(i), *M.index(i)
		mOther, MOther := *m.index(i + 1), *M.index(i + 1)
		// check that
		//  a) wide <= 4 * narrow
		//  b) bars and spaces are not more than a factor of 2 (or 3 for the
		//     max) apart from each other
		if Mi > 4*(mi+1) || Mi > 3*MOther || mi > 2*(mOther+1) {
			return BarAndSpace{}
		}
		// the threshold is the average of min and max but at least 1.5 * min
		t := (mi + Mi) / 2
		if t15 := mi * 3 / 2; t15 > t {
			t = t15
		}
		*res.index(i) = t
	}

	return res
}

// ToNarrowWidePattern classifies each run in counters as narrow or wide and
// returns the classifications as a bitmask, most significant bit first, with
// 1 meaning wide. Returns -1 when no plausible threshold exists or any run
// is more than twice the threshold for its channel.
func ToNarrowWidePattern(counters []int) int {
	threshold := NarrowWideThreshold(counters)
	if !threshold.IsValid() {
		return -1
	}

	pattern := 0
	for i, c := range counters {
		t := *threshold.index(i)
		if c > t*2 {
			return -1
		}
		pattern <<= 1
		if c > t {
			pattern |= 1
		}
	}

	return pattern
}

// DecodeNarrowWidePattern classifies counters as a narrow/wide bitmask, looks
// the mask up in table and returns the character of alphabet at the matching
// index. ok is false when classification fails or the mask is not in table.
func DecodeNarrowWidePattern(counters []int, table []int, alphabet string) (byte, bool) {
	p := ToNarrowWidePattern(counters)
	if p < 0 {
		return 0, false
	}
	for i, v := range table {
		if v == p {
			return alphabet[i], true
		}
	}
	return 0, false
}
