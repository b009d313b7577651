package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError    Event = "error"
	EventPong     Event = "pong"
	EventWallet   Event = "wallet"
	EventProgress Event = "progress"
)

// WalletEvent is pushed when the student's balance changes.
type WalletEvent struct {
	Event   Event `json:"event"`
	Balance int   `json:"balance"`
	Value   int   `json:"value"`
}

// ProgressEvent is pushed when an attempt is graded.
type ProgressEvent struct {
	Event    Event  `json:"event"`
	LessonID string `json:"lesson_id"`
	Status   string `json:"status"`
	Score    int    `json:"score"`
	Total    int    `json:"total"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
