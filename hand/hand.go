// Package hand maps hand-size categories to the reach limits used by
// the fingering search.
package hand

import (
	"fmt"
	"strings"
)

// Size is one of the seven ordered hand-size categories.
type Size string

const (
	SizeXXS Size = "XXS"
	SizeXS  Size = "XS"
	SizeS   Size = "S"
	SizeM   Size = "M"
	SizeL   Size = "L"
	SizeXL  Size = "XL"
	SizeXXL Size = "XXL"
)

var Sizes = []Size{SizeXXS, SizeXS, SizeS, SizeM, SizeL, SizeXL, SizeXXL}

// ParseSize accepts a size label such as "M" or "xl".
func ParseSize(s string) (Size, error) {
	for _, size := range Sizes {
		if string(size) == strings.ToUpper(s) {
			return size, nil
		}
	}
	return "", fmt.Errorf("unknown hand size %q (want one of XXS..XXL)", s)
}

// Profile holds the reach limits for one hand size, in semitones.
// MaxSpan is the comfortable thumb-to-pinky stretch. AdjacentSpan[i]
// is the stretch between fingers i+1 and i+2 (thumb=1 .. pinky=5).
// Immutable; constructed once per run and shared read-only.
type Profile struct {
	Size         Size
	MaxSpan      int
	AdjacentSpan [4]int
}

// Thumb-index carries most of the reach; the outer pairs barely open.
// A medium hand covers a ninth (14 semitones) thumb to pinky.
var profiles = map[Size]Profile{
	SizeXXS: {SizeXXS, 10, [4]int{5, 4, 3, 3}},
	SizeXS:  {SizeXS, 11, [4]int{6, 4, 3, 3}},
	SizeS:   {SizeS, 13, [4]int{6, 4, 4, 3}},
	SizeM:   {SizeM, 14, [4]int{7, 5, 4, 4}},
	SizeL:   {SizeL, 15, [4]int{7, 5, 5, 4}},
	SizeXL:  {SizeXL, 16, [4]int{8, 6, 5, 4}},
	SizeXXL: {SizeXXL, 17, [4]int{8, 6, 5, 5}},
}

// ForSize returns the constraint profile for a hand-size category.
func ForSize(s Size) Profile {
	p, ok := profiles[s]
	if !ok {
		return profiles[SizeM]
	}
	return p
}

// PairSpan is the comfortable stretch between two fingers: the summed
// adjacent spans between them, capped at MaxSpan. Fingers are 1..5.
func (p Profile) PairSpan(f1, f2 int) int {
	if f1 == f2 {
		return 0
	}
	if f1 > f2 {
		f1, f2 = f2, f1
	}
	span := 0
	for i := f1; i < f2; i++ {
		span += p.AdjacentSpan[i-1]
	}
	if span > p.MaxSpan {
		return p.MaxSpan
	}
	return span
}
