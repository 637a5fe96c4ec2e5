package domain

// ReasoningStep is one visible stage of a deep reasoning trace.
// Narration is the short progress line shown while the step runs;
// Content carries the substance the step produced (analysis text,
// conclusion text, or the reason a gate rejected the question).
type ReasoningStep struct {
	Name      string `json:"name"`
	Narration string `json:"narration"`
	Content   string `json:"content"`
}

// ReasoningResult is the full outcome of a deep reasoning run:
// an ordered trace of steps and the final answer text.
// Answer is never empty; failure paths carry a fixed fallback message.
type ReasoningResult struct {
	Steps  []ReasoningStep `json:"steps"`
	Answer string          `json:"answer"`
}
