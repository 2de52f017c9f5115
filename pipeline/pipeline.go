// Package pipeline wires the stages together: note streams in, a
// validated song document out. The two hands are independent and run
// in parallel; the constraint profile they share is read-only.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pianovis/handex/generative"
	"github.com/pianovis/handex/hand"
	"github.com/pianovis/handex/model"
	"github.com/pianovis/handex/search"
	"github.com/pianovis/handex/song"
	"github.com/pianovis/handex/stream"
	"github.com/pianovis/handex/validate"
)

// Assigner is the contract both strategies implement: positions in,
// note-aligned finger assignments plus recorded violations out.
type Assigner interface {
	Assign(ctx context.Context, positions []model.Position) ([]model.FingerAssignment, []model.Violation, error)
}

type Input struct {
	Right    []model.NoteEvent
	Left     []model.NoteEvent
	HandSize hand.Size
	Strategy model.Strategy
	Source   string
	Name     string
	Artist   string

	// Tolerance <= 0 means the default chord-detection tolerance.
	Tolerance float64

	// Generation overrides the generative client; nil builds one from
	// the environment when the generative strategy is selected.
	Generation *generative.Client

	// Engine overrides the search engine; nil builds one for HandSize.
	Engine *search.Engine
}

// generativeAssigner narrows the adapter onto the Assigner contract.
type generativeAssigner struct {
	client *generative.Client
	size   hand.Size
}

func (g generativeAssigner) Assign(ctx context.Context, positions []model.Position) ([]model.FingerAssignment, []model.Violation, error) {
	return g.client.Assign(ctx, positions, g.size)
}

// Run executes the full pipeline. A generative strategy that exhausts
// its retries falls back to the search engine, and the song's strategy
// metadata reports what actually produced the fingers.
func Run(ctx context.Context, input Input) (*model.Song, error) {
	assigned, err := Assign(ctx, input)
	if err != nil {
		return nil, err
	}
	return song.Render(assigned), nil
}

// Assign runs everything but the final serialization.
func Assign(ctx context.Context, input Input) (*model.AssignedSong, error) {
	rightPositions, err := stream.Build(input.Right, input.Tolerance)
	if err != nil {
		return nil, fmt.Errorf("right hand: %w", err)
	}
	leftPositions, err := stream.Build(input.Left, input.Tolerance)
	if err != nil {
		return nil, fmt.Errorf("left hand: %w", err)
	}

	strategy := input.Strategy
	if strategy == "" {
		strategy = model.StrategySearch
	}

	engine := input.Engine
	if engine == nil {
		engine = search.NewEngine(hand.ForSize(input.HandSize))
	}

	var assigner Assigner = engine
	if strategy == model.StrategyGenerative {
		client := input.Generation
		if client == nil {
			client = generative.NewClient("")
		}
		assigner = generativeAssigner{client: client, size: input.HandSize}
	}

	right, left, err := assignBothHands(ctx, assigner, rightPositions, leftPositions)
	if errors.Is(err, generative.ErrGenerationFailed) {
		// recoverable: redo with the search strategy
		strategy = model.StrategySearch
		right, left, err = assignBothHands(ctx, engine, rightPositions, leftPositions)
	}
	if err != nil {
		return nil, err
	}

	assigned := &model.AssignedSong{
		ID:       uuid.New().String(),
		Name:     input.Name,
		Artist:   input.Artist,
		Source:   input.Source,
		HandSize: string(input.HandSize),
		Strategy: strategy,
		Right: model.HandTrack{
			Hand:        model.HandRight,
			Positions:   rightPositions,
			Assignments: right.assignments,
		},
		Left: model.HandTrack{
			Hand:        model.HandLeft,
			Positions:   leftPositions,
			Assignments: left.assignments,
		},
	}
	assigned.Violations = append(assigned.Violations, right.violations...)
	assigned.Violations = append(assigned.Violations, left.violations...)

	if err := validate.Validate(assigned); err != nil {
		return nil, err
	}
	return assigned, nil
}

type handResult struct {
	assignments []model.FingerAssignment
	violations  []model.Violation
	err         error
}

func assignBothHands(ctx context.Context, assigner Assigner, right, left []model.Position) (handResult, handResult, error) {
	results := make(chan struct {
		hand model.Hand
		res  handResult
	}, 2)

	for _, h := range []struct {
		hand      model.Hand
		positions []model.Position
	}{
		{model.HandRight, right},
		{model.HandLeft, left},
	} {
		h := h
		go func() {
			assignments, violations, err := assigner.Assign(ctx, h.positions)
			results <- struct {
				hand model.Hand
				res  handResult
			}{h.hand, handResult{assignments, violations, err}}
		}()
	}

	var rightRes, leftRes handResult
	for i := 0; i < 2; i++ {
		r := <-results
		if r.hand == model.HandRight {
			rightRes = r.res
		} else {
			leftRes = r.res
		}
	}

	if rightRes.err != nil {
		return rightRes, leftRes, fmt.Errorf("right hand: %w", rightRes.err)
	}
	if leftRes.err != nil {
		return rightRes, leftRes, fmt.Errorf("left hand: %w", leftRes.err)
	}
	return rightRes, leftRes, nil
}
