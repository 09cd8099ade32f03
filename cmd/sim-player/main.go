package main

import (
	"encoding/json"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// sim-player is a scripted participant for manual end-to-end runs against a
// chat server with the taskbot attached. It joins a room, then plays each
// script step after the bot's next message. Steps are either chat text or a
// command prefixed with "/".
//
// Example:
//
//	SCRIPT="hello;/guess piano;/agree" ROOM_ID=r1 ./sim-player
func main() {
	wsURL := getenv("WS_URL", "ws://localhost:5000/ws")
	token := getenv("USER_TOKEN", "")
	roomID := getenv("ROOM_ID", "r1")
	script := strings.Split(getenv("SCRIPT", ""), ";")

	header := map[string][]string{}
	if token != "" {
		header["Authorization"] = []string{"Bearer " + token}
	}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	send(conn, Step{Type: "join", RoomID: roomID})
	log.Printf("joined %s, %d scripted steps", roomID, len(script))

	idx := 0
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		log.Printf("<- [%s] %s", msg.Type, msg.Text)
		if msg.Type != "text" {
			continue
		}
		if idx >= len(script) {
			continue
		}
		step := strings.TrimSpace(script[idx])
		idx++
		if step == "" {
			continue
		}
		time.Sleep(500 * time.Millisecond)
		if cmd, ok := strings.CutPrefix(step, "/"); ok {
			send(conn, Step{Type: "command", RoomID: roomID, Text: cmd})
		} else {
			send(conn, Step{Type: "text", RoomID: roomID, Text: step})
		}
		log.Printf("-> %s", step)
	}
}

type Step struct {
	Type   string `json:"type"`
	RoomID string `json:"room_id"`
	Text   string `json:"text,omitempty"`
}

func send(conn *websocket.Conn, s Step) {
	payload, _ := json.Marshal(s)
	_ = conn.WriteMessage(websocket.TextMessage, payload)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
