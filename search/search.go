// Package search assigns fingers to note positions by minimizing a
// cumulative transition cost over a bounded lookahead window. There is
// no global backtracking: the engine commits one position at a time
// and slides the window, so runtime stays linear in note count.
package search

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/pianovis/handex/constants"
	"github.com/pianovis/handex/hand"
	"github.com/pianovis/handex/model"
	"github.com/pianovis/handex/util"
)

// Weights are the tunable cost-function parameters. The exact balance
// of span vs. repetition vs. crossing is not canonical; these defaults
// are validated against reference fingerings in the tests.
type Weights struct {
	SpanExcess float64
	Repetition float64
	Crossing   float64
	ThumbReuse float64
	Neutral    float64
}

func DefaultWeights() Weights {
	return Weights{
		SpanExcess: 4,
		Repetition: 6,
		Crossing:   5,
		ThumbReuse: 1,
		Neutral:    0.01,
	}
}

type Engine struct {
	Profile hand.Profile
	Weights Weights
	Window  int
}

func NewEngine(profile hand.Profile) *Engine {
	return &Engine{
		Profile: profile,
		Weights: DefaultWeights(),
		Window:  constants.DefaultSearchWindow,
	}
}

// snapshot is the hand state after a position: pitch held by each
// finger (index 0 = thumb), 0 when the finger was not used. Passed by
// value through the window search so scoring never aliases state.
type snapshot [5]int

func (s snapshot) used(finger int) (int, bool) {
	p := s[finger-1]
	return p, p != 0
}

// Assign produces one FingerAssignment per position plus the recorded
// violations. Chords wider than five notes keep their five lowest
// notes; each dropped note is a chord-overflow violation. Chords whose
// best assignment still exceeds the profile span are span-relaxed
// violations, not errors.
func (e *Engine) Assign(ctx context.Context, positions []model.Position) ([]model.FingerAssignment, []model.Violation, error) {
	window := e.Window
	if window <= 0 {
		window = constants.DefaultSearchWindow
	}

	assignments := make([]model.FingerAssignment, len(positions))
	var violations []model.Violation
	median := medianPitch(positions)

	var prev snapshot
	prevChord := false
	for i := range positions {
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		default:
		}

		cand := e.bestCandidate(positions, i, window, prev, prevChord, median)
		pos := positions[i]
		fingers := make([]model.Finger, len(pos.Notes))
		for k := range fingers {
			if k < len(cand) {
				fingers[k] = cand[k]
			} else {
				fingers[k] = model.FingerUnset
				violations = append(violations, model.Violation{
					Kind:     model.ViolationChordOverflow,
					Hand:     pos.Hand,
					Position: i,
					Detail:   fmt.Sprintf("note %v exceeds five-finger capacity", pos.Notes[k].Pitch),
				})
			}
		}
		assignments[i] = model.FingerAssignment{Fingers: fingers}

		if e.chordSpanExceeded(pos, cand) {
			violations = append(violations, model.Violation{
				Kind:     model.ViolationSpanRelaxed,
				Hand:     pos.Hand,
				Position: i,
				Detail:   fmt.Sprintf("chord span exceeds %v limits", e.Profile.Size),
			})
		}

		prev = makeSnapshot(pos, cand)
		prevChord = len(pos.Notes) > 1
	}

	return assignments, violations, nil
}

// bestCandidate enumerates assignment sequences for the next Window
// positions and returns the first position's fingers from the cheapest
// sequence.
func (e *Engine) bestCandidate(positions []model.Position, start, window int, prev snapshot, prevChord bool, median float64) []int {
	end := util.Min(start+window, len(positions))

	best := math.MaxFloat64
	var bestFirst []int

	var walk func(idx int, state snapshot, stateChord bool, acc float64, first []int)
	walk = func(idx int, state snapshot, stateChord bool, acc float64, first []int) {
		if acc >= best {
			return
		}
		if idx == end {
			best = acc
			bestFirst = first
			return
		}
		pos := positions[idx]
		for _, cand := range candidates(len(pos.Notes)) {
			cost := e.positionCost(pos, cand, state, stateChord, median)
			f := first
			if f == nil {
				f = cand
			}
			walk(idx+1, makeSnapshot(pos, cand), len(pos.Notes) > 1, acc+cost, f)
		}
	}
	walk(start, prev, prevChord, 0, nil)
	return bestFirst
}

// positionCost scores placing cand on pos given the previous hand
// state: in-chord span excess, transition stretch, repetition,
// crossing, thumb reuse and the neutral-posture tie bias.
func (e *Engine) positionCost(pos model.Position, cand []int, prev snapshot, prevChord bool, median float64) float64 {
	w := e.Weights
	var cost float64

	// span between simultaneously held fingers, quadratic over excess
	for a := 0; a < len(cand); a++ {
		for b := a + 1; b < len(cand); b++ {
			dist := pos.Notes[b].Pitch - pos.Notes[a].Pitch
			excess := dist - e.Profile.PairSpan(cand[a], cand[b])
			if excess > 0 {
				cost += w.SpanExcess * float64(excess*excess)
			}
		}
	}

	for k, finger := range cand {
		pitch := pos.Notes[k].Pitch

		if prevPitch, ok := prev.used(finger); ok && prevPitch != pitch {
			cost += w.Repetition
			if finger == model.Thumb && !prevChord && len(pos.Notes) == 1 {
				cost += w.ThumbReuse
			}
		}

		for pf := 1; pf <= 5; pf++ {
			prevPitch, ok := prev.used(pf)
			if !ok || pf == finger {
				continue
			}
			// stretch relative to the hand's previous placement
			excess := util.Abs(pitch-prevPitch) - e.Profile.PairSpan(pf, finger)
			if excess > 0 {
				cost += w.SpanExcess * float64(excess*excess)
			}
			// finger order inverted against pitch order
			if (finger > pf && pitch < prevPitch) || (finger < pf && pitch > prevPitch) {
				cost += w.Crossing
			}
		}

		// prefer a posture with finger 3 near the median pitch
		center := float64(pitch - (finger-3)*2)
		cost += w.Neutral * util.Abs(center-median)
	}

	return cost
}

func (e *Engine) chordSpanExceeded(pos model.Position, cand []int) bool {
	for a := 0; a < len(cand); a++ {
		for b := a + 1; b < len(cand); b++ {
			dist := pos.Notes[b].Pitch - pos.Notes[a].Pitch
			if dist > e.Profile.PairSpan(cand[a], cand[b]) {
				return true
			}
		}
	}
	return false
}

func makeSnapshot(pos model.Position, cand []int) snapshot {
	var s snapshot
	for k, finger := range cand {
		if k < len(pos.Notes) {
			s[finger-1] = pos.Notes[k].Pitch
		}
	}
	return s
}

func medianPitch(positions []model.Position) float64 {
	var pitches []int
	for _, pos := range positions {
		for _, n := range pos.Notes {
			pitches = append(pitches, n.Pitch)
		}
	}
	if len(pitches) == 0 {
		return 60
	}
	sort.Ints(pitches)
	return float64(pitches[len(pitches)/2])
}

// candidates returns the ascending finger combinations for an n-note
// chord. Lower pitch maps to the lower finger index by construction;
// a chord past five notes only covers its five lowest.
func candidates(n int) [][]int {
	if n > 5 {
		n = 5
	}
	return fingerCombos[n]
}

var fingerCombos = buildCombos()

func buildCombos() map[int][][]int {
	res := make(map[int][][]int)
	for n := 1; n <= 5; n++ {
		res[n] = combos(1, n)
	}
	return res
}

func combos(from, n int) [][]int {
	if n == 0 {
		return [][]int{{}}
	}
	var res [][]int
	for f := from; f <= 5-(n-1); f++ {
		for _, rest := range combos(f+1, n-1) {
			res = append(res, append([]int{f}, rest...))
		}
	}
	return res
}
