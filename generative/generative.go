// Package generative delegates finger assignment to an external
// generation service speaking the LM Studio chat-completions protocol.
// The adapter only fills the finger field of existing notes; pitch and
// timing never leave its hands altered.
package generative

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pianovis/handex/constants"
	"github.com/pianovis/handex/hand"
	"github.com/pianovis/handex/model"
)

// ErrGenerationFailed means the service never produced a usable finger
// sequence within the retry budget. Callers may fall back to the
// search engine.
var ErrGenerationFailed = errors.New("fingering generation failed")

type Client struct {
	URL        string
	HTTPClient *http.Client
	MaxRetries int
}

func NewClient(url string) *Client {
	if url == "" {
		url = constants.GetGenerationURL()
	}
	return &Client{
		URL: url,
		HTTPClient: &http.Client{
			Timeout: constants.DefaultGenerationTimeoutSecs * time.Second,
		},
		MaxRetries: constants.DefaultGenerationRetries,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type promptNote struct {
	Pitch    int     `json:"pitch"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

type prompt struct {
	RequestID  string       `json:"request_id"`
	HandSize   string       `json:"hand_size"`
	Notes      []promptNote `json:"notes"`
	Corrective string       `json:"corrective,omitempty"`
}

type result struct {
	Fingers []int `json:"fingers"`
}

// Assign requests a note-aligned finger sequence for the position
// stream. The response must contain exactly one integer 1-5 per
// requested note; anything else triggers a corrective re-request, up
// to MaxRetries attempts in total.
func (c *Client) Assign(ctx context.Context, positions []model.Position, size hand.Size) ([]model.FingerAssignment, []model.Violation, error) {
	var notes []promptNote
	var violations []model.Violation
	kept := make([]int, len(positions)) // requested notes per position
	for i, pos := range positions {
		n := len(pos.Notes)
		if n > 5 {
			for k := 5; k < n; k++ {
				violations = append(violations, model.Violation{
					Kind:     model.ViolationChordOverflow,
					Hand:     pos.Hand,
					Position: i,
					Detail:   fmt.Sprintf("note %v exceeds five-finger capacity", pos.Notes[k].Pitch),
				})
			}
			n = 5
		}
		kept[i] = n
		for k := 0; k < n; k++ {
			notes = append(notes, promptNote{
				Pitch:    pos.Notes[k].Pitch,
				Start:    pos.Notes[k].Start,
				Duration: pos.Notes[k].Duration,
			})
		}
	}

	retries := c.MaxRetries
	if retries <= 0 {
		retries = constants.DefaultGenerationRetries
	}

	corrective := ""
	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		p := prompt{
			RequestID:  uuid.New().String(),
			HandSize:   string(size),
			Notes:      notes,
			Corrective: corrective,
		}
		fingers, err := c.request(ctx, p)
		if err == nil {
			err = checkFingers(fingers, len(notes))
		}
		if err == nil {
			return buildAssignments(positions, kept, fingers), violations, nil
		}
		lastErr = err
		corrective = fmt.Sprintf(
			"previous response was invalid (%v); respond with JSON {\"fingers\": [...]} holding exactly %v integers between 1 and 5, one per note in order",
			err, len(notes))
	}

	return nil, nil, fmt.Errorf("%w after %v attempts: %v", ErrGenerationFailed, retries, lastErr)
}

func (c *Client) request(ctx context.Context, p prompt) ([]int, error) {
	content, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(chatRequest{
		Messages: []chatMessage{{Role: "user", Content: string(content)}},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.URL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("generation service returned %v", resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var cr chatResponse
	if err := json.Unmarshal(raw, &cr); err != nil {
		return nil, fmt.Errorf("decoding service response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return nil, errors.New("service response has no choices")
	}

	var res result
	if err := json.Unmarshal([]byte(cr.Choices[0].Message.Content), &res); err != nil {
		return nil, fmt.Errorf("decoding finger sequence: %w", err)
	}
	return res.Fingers, nil
}

func checkFingers(fingers []int, want int) error {
	if len(fingers) != want {
		return fmt.Errorf("finger sequence length %v, want %v", len(fingers), want)
	}
	for _, f := range fingers {
		if f < 1 || f > 5 {
			return fmt.Errorf("finger %v out of range 1-5", f)
		}
	}
	return nil
}

func buildAssignments(positions []model.Position, kept []int, fingers []int) []model.FingerAssignment {
	assignments := make([]model.FingerAssignment, len(positions))
	next := 0
	for i, pos := range positions {
		fs := make([]model.Finger, len(pos.Notes))
		for k := range fs {
			if k < kept[i] {
				fs[k] = fingers[next]
				next++
			} else {
				fs[k] = model.FingerUnset
			}
		}
		assignments[i] = model.FingerAssignment{Fingers: fs}
	}
	return assignments
}
