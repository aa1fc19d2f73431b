package protocol

// Message types carried in every frame's "type" field
const (
	// Client -> Server
	TypeHello  = "hello"
	TypeAction = "action"

	// Server -> Client
	TypeRoundStart    = "round_start"
	TypeActionRequest = "action_request"
	TypeRoundOver     = "round_over"
	TypeGameOver      = "game_over"
	TypeError         = "error"
)

// Client -> Server Messages

// Hello is sent by a bot right after connecting
type Hello struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// Action is sent by a bot in response to ActionRequest
type Action struct {
	Type   string `json:"type"`
	Round  int    `json:"round"`
	Action string `json:"action"`           // fold, call, check, raise, discard
	Amount int    `json:"amount,omitempty"` // raise total
	Index  int    `json:"index,omitempty"`  // discard position
}

// Server -> Client Messages

// RoundStart is sent when a new round is dealt
type RoundStart struct {
	Type        string   `json:"type"`
	Round       int      `json:"round"`
	Seat        int      `json:"seat"`
	Bankroll    int      `json:"bankroll"`
	GameClockMs int64    `json:"game_clock_ms"`
	HoleCards   []string `json:"hole_cards"`
}

// ActionRequest asks a bot to make a decision
type ActionRequest struct {
	Type         string   `json:"type"`
	Round        int      `json:"round"`
	Seat         int      `json:"seat"`
	Street       int      `json:"street"`
	ValidActions []string `json:"valid_actions"`
	MinRaise     int      `json:"min_raise,omitempty"`
	MaxRaise     int      `json:"max_raise,omitempty"`
	HoleCards    []string `json:"hole_cards"`
	Board        []string `json:"board"`
	MyPip        int      `json:"my_pip"`
	OppPip       int      `json:"opp_pip"`
	MyStack      int      `json:"my_stack"`
	OppStack     int      `json:"opp_stack"`
	Bankroll     int      `json:"bankroll"`
	GameClockMs  int64    `json:"game_clock_ms"`
}

// RoundOver is sent at round completion
type RoundOver struct {
	Type          string   `json:"type"`
	Round         int      `json:"round"`
	Seat          int      `json:"seat"`
	Delta         int      `json:"delta"`
	Street        int      `json:"street"`
	HoleCards     []string `json:"hole_cards"`
	OpponentCards []string `json:"opponent_cards,omitempty"` // only at showdown
	Board         []string `json:"board"`
	HandRank      string   `json:"hand_rank,omitempty"` // e.g. "Pair of Aces"
}

// GameOver is sent once the match has finished
type GameOver struct {
	Type     string `json:"type"`
	Match    string `json:"match,omitempty"`
	Rounds   int    `json:"rounds"`
	Bankroll int    `json:"bankroll"`
	Opponent string `json:"opponent"`
}

// Error message
type Error struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
