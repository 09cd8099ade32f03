package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type SessionConfig struct {
	RequiredParticipants int `env:"REQUIRED_PARTICIPANTS" envDefault:"2"`

	// RoomTimeout is the whole-room inactivity window; LeaveGrace is how
	// long a departed participant may take to rejoin before the session
	// is abandoned.
	RoomTimeout time.Duration `env:"ROOM_TIMEOUT" envDefault:"65m"`
	LeaveGrace  time.Duration `env:"LEAVE_GRACE" envDefault:"5m"`

	ReplayBufferSize int `env:"REPLAY_BUFFER_SIZE" envDefault:"200"`
}

func LoadSession() (SessionConfig, error) {
	var cfg SessionConfig
	err := env.Parse(&cfg)
	return cfg, err
}
