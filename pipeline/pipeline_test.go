package pipeline

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pianovis/handex/generative"
	"github.com/pianovis/handex/hand"
	"github.com/pianovis/handex/model"
	"github.com/stretchr/testify/assert"
)

func note(pitch int, start float64, h model.Hand) model.NoteEvent {
	return model.NoteEvent{Pitch: pitch, Start: start, Duration: 0.5, Hand: h}
}

func twoHandInput() Input {
	return Input{
		Right: []model.NoteEvent{
			note(60, 0, model.HandRight),
			note(64, 0, model.HandRight),
			note(67, 0, model.HandRight),
			note(72, 1, model.HandRight),
		},
		Left: []model.NoteEvent{
			note(48, 0, model.HandLeft),
			note(43, 1, model.HandLeft),
		},
		HandSize: hand.SizeM,
		Source:   "test.mid",
		Name:     "Test Song",
	}
}

func TestRunWithSearchStrategy(t *testing.T) {
	doc, err := Run(context.Background(), twoHandInput())

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal("search", doc.Strategy)
	assert.Equal("M", doc.HandSize)
	assert.Equal("test.mid", doc.Source)
	assert.NotEmpty(doc.ID)
	assert.Len(doc.Tracks.Right, 4)
	assert.Len(doc.Tracks.Left, 2)
	for _, n := range append(doc.Tracks.Right, doc.Tracks.Left...) {
		assert.GreaterOrEqual(n.Finger, 1)
		assert.LessOrEqual(n.Finger, 5)
	}
}

func TestRunFailsOnEmptyHand(t *testing.T) {
	input := twoHandInput()
	input.Left = nil

	_, err := Run(context.Background(), input)
	assert.ErrorIs(t, err, model.ErrMalformedInput)
}

func TestGenerativeStrategyUsesService(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		var p struct {
			Notes []struct {
				Pitch int `json:"pitch"`
			} `json:"notes"`
		}
		json.Unmarshal([]byte(req.Messages[0].Content), &p)

		fingers := make([]int, len(p.Notes))
		for i := range fingers {
			fingers[i] = i%5 + 1
		}
		content, _ := json.Marshal(map[string]any{"fingers": fingers})
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": string(content)}},
			},
		})
	}))
	defer server.Close()

	input := twoHandInput()
	input.Strategy = model.StrategyGenerative
	input.Generation = generative.NewClient(server.URL)

	doc, err := Run(context.Background(), input)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal("generative", doc.Strategy)
	assert.Len(doc.Tracks.Right, 4)
}

func TestGenerativeFailureFallsBackToSearch(t *testing.T) {
	// the service never returns the right number of fingers
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		content, _ := json.Marshal(map[string]any{"fingers": []int{1}})
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": string(content)}},
			},
		})
	}))
	defer server.Close()

	input := twoHandInput()
	input.Strategy = model.StrategyGenerative
	input.Generation = generative.NewClient(server.URL)

	doc, err := Run(context.Background(), input)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal("search", doc.Strategy)
	assert.Len(doc.Tracks.Right, 4)
	assert.Len(doc.Tracks.Left, 2)
}

func TestViolationCountReachesMetadata(t *testing.T) {
	input := twoHandInput()
	// a six-note cluster overflows the five-finger capacity
	input.Right = nil
	for _, p := range []int{60, 62, 64, 65, 67, 69} {
		input.Right = append(input.Right, note(p, 0, model.HandRight))
	}

	doc, err := Run(context.Background(), input)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(1, doc.Violations)
	assert.Len(doc.Tracks.Right, 5)
}

func TestCancelledContextAborts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, twoHandInput())
	assert.Error(t, err)
}
