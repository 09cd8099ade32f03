package config

import (
	"testing"
	"time"
)

func TestLoadSessionDefaults(t *testing.T) {
	cfg, err := LoadSession()
	if err != nil {
		t.Fatalf("LoadSession() error = %v", err)
	}
	if cfg.RequiredParticipants != 2 {
		t.Fatalf("RequiredParticipants = %d, want 2", cfg.RequiredParticipants)
	}
	if cfg.RoomTimeout != 65*time.Minute {
		t.Fatalf("RoomTimeout = %v, want 65m", cfg.RoomTimeout)
	}
	if cfg.LeaveGrace != 5*time.Minute {
		t.Fatalf("LeaveGrace = %v, want 5m", cfg.LeaveGrace)
	}
}

func TestLoadSessionOverrides(t *testing.T) {
	t.Setenv("REQUIRED_PARTICIPANTS", "3")
	t.Setenv("LEAVE_GRACE", "2m30s")

	cfg, err := LoadSession()
	if err != nil {
		t.Fatalf("LoadSession() error = %v", err)
	}
	if cfg.RequiredParticipants != 3 {
		t.Fatalf("RequiredParticipants = %d, want 3", cfg.RequiredParticipants)
	}
	if cfg.LeaveGrace != 2*time.Minute+30*time.Second {
		t.Fatalf("LeaveGrace = %v, want 2m30s", cfg.LeaveGrace)
	}
}
