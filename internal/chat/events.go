package chat

import "strings"

type EventType string

const (
	EventJoined  EventType = "joined"
	EventLeft    EventType = "left"
	EventCommand EventType = "command"
	EventText    EventType = "text"
)

type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Event is one inbound occurrence from the chat server, already decoded
// from the wire envelope.
type Event struct {
	Type   EventType
	RoomID string
	User   User
	Text   string
}

// Handler consumes inbound events. The session dispatcher implements this.
type Handler interface {
	HandleEvent(ev Event)
}

type CommandKind int

const (
	CmdUnknown CommandKind = iota
	CmdProposal
	CmdAgreement
	CmdNoReply
)

// Command is the tagged form of a slash-command, decoded exactly once at
// the transport boundary so the coordinator can match on Kind instead of
// re-parsing strings.
type Command struct {
	Kind CommandKind
	Text string
}

func ParseCommand(raw string) Command {
	trimmed := strings.TrimSpace(raw)
	switch strings.ToLower(trimmed) {
	case "agree", "accept":
		return Command{Kind: CmdAgreement}
	case "noreply", "no_reply":
		return Command{Kind: CmdNoReply}
	}
	verb, rest, _ := strings.Cut(trimmed, " ")
	switch strings.ToLower(verb) {
	case "guess", "answer", "propose":
		// A bare verb still counts as a proposal; the task validator
		// rejects the empty content with a proper explanation.
		return Command{Kind: CmdProposal, Text: strings.TrimSpace(rest)}
	}
	return Command{Kind: CmdUnknown, Text: trimmed}
}
