package entities

// ChatMessage is one turn of a structured conversation passed to the
// prompt scorer.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
