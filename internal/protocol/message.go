package protocol

import (
	"github.com/mcoot/chessgame-go/internal/chess"
)

// MessageType discriminates outbound messages
type MessageType string

const (
	LoadGame     MessageType = "LOAD_GAME"
	Notification MessageType = "NOTIFICATION"
	Error        MessageType = "ERROR"
)

// Message is sent from the server to a client. LOAD_GAME carries the encoded
// board and the side to move; NOTIFICATION and ERROR carry text.
type Message struct {
	ServerMessageType MessageType  `json:"serverMessageType"`
	Game              string       `json:"game,omitempty"`
	CurrentTeam       *chess.Color `json:"currentTeam,omitempty"`
	Message           string       `json:"message,omitempty"`
	ErrorMessage      string       `json:"errorMessage,omitempty"`
}

// NewLoadGame snapshots g into a LOAD_GAME message
func NewLoadGame(g *chess.Game) Message {
	turn := g.Turn()
	return Message{
		ServerMessageType: LoadGame,
		Game:              g.Serialize(),
		CurrentTeam:       &turn,
	}
}

// NewNotification builds a NOTIFICATION message
func NewNotification(text string) Message {
	return Message{ServerMessageType: Notification, Message: text}
}

// NewError builds an ERROR message. The text is prefixed with "Error: ".
func NewError(text string) Message {
	return Message{ServerMessageType: Error, ErrorMessage: "Error: " + text}
}

// DecodeGame rebuilds the engine state carried by a LOAD_GAME message
func (m Message) DecodeGame() (*chess.Game, error) {
	turn := chess.White
	if m.CurrentTeam != nil {
		turn = *m.CurrentTeam
	}
	return chess.Deserialize(m.Game, turn)
}

// Text returns the human-readable payload of a message
func (m Message) Text() string {
	switch m.ServerMessageType {
	case Error:
		return m.ErrorMessage
	case Notification:
		return m.Message
	}
	return ""
}
