package chat

import "testing"

func TestParseCommand(t *testing.T) {
	cases := []struct {
		raw  string
		kind CommandKind
		text string
	}{
		{"agree", CmdAgreement, ""},
		{"  AGREE  ", CmdAgreement, ""},
		{"accept", CmdAgreement, ""},
		{"noreply", CmdNoReply, ""},
		{"no_reply", CmdNoReply, ""},
		{"guess apple", CmdProposal, "apple"},
		{"GUESS apple", CmdProposal, "apple"},
		{"answer 42", CmdProposal, "42"},
		{"propose blue box", CmdProposal, "blue box"},
		{"guess", CmdProposal, ""},
		{"guess   ", CmdProposal, ""},
		{"hello there", CmdUnknown, "hello there"},
		{"", CmdUnknown, ""},
	}
	for _, c := range cases {
		got := ParseCommand(c.raw)
		if got.Kind != c.kind || got.Text != c.text {
			t.Fatalf("ParseCommand(%q) = {%v %q}, want {%v %q}", c.raw, got.Kind, got.Text, c.kind, c.text)
		}
	}
}

func TestDecodeEnvelopeUnknownTypeIgnored(t *testing.T) {
	_, ok := decodeEnvelope(Envelope{Type: "typing_started", RoomID: "r1"})
	if ok {
		t.Fatal("expected unknown envelope type to be dropped")
	}
}

func TestDecodeEnvelopeKnownTypes(t *testing.T) {
	for _, typ := range []string{"joined", "left", "command", "text"} {
		ev, ok := decodeEnvelope(Envelope{Type: typ, RoomID: "r1", User: User{ID: "u1"}})
		if !ok {
			t.Fatalf("decodeEnvelope(%q) dropped", typ)
		}
		if ev.RoomID != "r1" || ev.User.ID != "u1" {
			t.Fatalf("decodeEnvelope(%q) = %+v", typ, ev)
		}
	}
}
