package model

type FingeringsRequestBody struct {
	HandSize string      `json:"hand_size"`
	Strategy string      `json:"strategy,omitempty"`
	Source   string      `json:"source,omitempty"`
	Right    []NoteEvent `json:"right"`
	Left     []NoteEvent `json:"left"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
