package models

// GenerateRequest is the body posted to the generation service.
type GenerateRequest struct {
	PostType PostType `json:"post_type"`
	Topic    string   `json:"topic"`
	Tone     Tone     `json:"tone"`
	IsPro    bool     `json:"is_pro"`
}

type GenerateResponse struct {
	Content string `json:"content"`
}

// ErrorResponse is what the generation service sends with a non-2xx status.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
