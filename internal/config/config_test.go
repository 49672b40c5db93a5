package config

import (
	"testing"
	"time"
)

func TestParseFollowers(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{
			name:  "empty string",
			input: "",
			want:  nil,
		},
		{
			name:  "single follower",
			input: "http://follower1:5001",
			want:  []string{"http://follower1:5001"},
		},
		{
			name:  "multiple followers",
			input: "http://f1:5001,http://f2:5002,http://f3:5003",
			want:  []string{"http://f1:5001", "http://f2:5002", "http://f3:5003"},
		},
		{
			name:  "with spaces and blank segments",
			input: " http://f1:5001 , ,http://f2:5002,",
			want:  []string{"http://f1:5001", "http://f2:5002"},
		},
		{
			name:  "trailing slash trimmed",
			input: "http://f1:5001/",
			want:  []string{"http://f1:5001"},
		},
		{
			name:    "missing scheme",
			input:   "f1:5001",
			wantErr: true,
		},
		{
			name:    "not a URL",
			input:   "http://",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFollowers(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseFollowers() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Errorf("ParseFollowers() length = %d, want %d", len(got), len(tt.want))
				return
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseFollowers()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}

	if cfg.Role != RoleFollower {
		t.Errorf("Role = %q, want follower", cfg.Role)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("Port = %d, want %d", cfg.Port, DefaultPort)
	}
	if cfg.WriteQuorum != DefaultQuorum {
		t.Errorf("WriteQuorum = %d, want %d", cfg.WriteQuorum, DefaultQuorum)
	}
	if cfg.MinDelay != DefaultMinDelay || cfg.MaxDelay != DefaultMaxDelay {
		t.Errorf("delays = [%s, %s], want [%s, %s]",
			cfg.MinDelay, cfg.MaxDelay, time.Duration(DefaultMinDelay), DefaultMaxDelay)
	}
}

func TestFromEnv_Leader(t *testing.T) {
	clearEnv(t)
	t.Setenv("ROLE", "leader")
	t.Setenv("PORT", "8000")
	t.Setenv("FOLLOWERS", "http://f1:5001,http://f2:5002")
	t.Setenv("WRITE_QUORUM", "2")
	t.Setenv("MIN_DELAY", "10")
	t.Setenv("MAX_DELAY", "250")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}

	if cfg.Role != RoleLeader {
		t.Errorf("Role = %q, want leader", cfg.Role)
	}
	if cfg.Port != 8000 {
		t.Errorf("Port = %d, want 8000", cfg.Port)
	}
	if len(cfg.Followers) != 2 {
		t.Errorf("Followers = %v, want 2 entries", cfg.Followers)
	}
	if cfg.WriteQuorum != 2 {
		t.Errorf("WriteQuorum = %d, want 2", cfg.WriteQuorum)
	}
	if cfg.MinDelay != 10*time.Millisecond || cfg.MaxDelay != 250*time.Millisecond {
		t.Errorf("delays = [%s, %s], want [10ms, 250ms]", cfg.MinDelay, cfg.MaxDelay)
	}
}

func TestFromEnv_FollowerIgnoresFollowerList(t *testing.T) {
	clearEnv(t)
	t.Setenv("ROLE", "follower")
	t.Setenv("FOLLOWERS", "http://f1:5001")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}
	if len(cfg.Followers) != 0 {
		t.Errorf("Followers = %v, want none on a follower", cfg.Followers)
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown role", "ROLE", "observer"},
		{"bad port", "PORT", "not-a-port"},
		{"port out of range", "PORT", "70000"},
		{"negative quorum", "WRITE_QUORUM", "-1"},
		{"quorum not a number", "WRITE_QUORUM", "two"},
		{"negative delay", "MIN_DELAY", "-5"},
		{"delay not a number", "MAX_DELAY", "fast"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			if _, err := FromEnv(); err == nil {
				t.Errorf("FromEnv() with %s=%q: expected error", tt.key, tt.value)
			}
		})
	}
}

func TestFromEnv_MaxDelayBelowMinDelay(t *testing.T) {
	clearEnv(t)
	t.Setenv("MIN_DELAY", "500")
	t.Setenv("MAX_DELAY", "100")

	if _, err := FromEnv(); err == nil {
		t.Error("expected error when MAX_DELAY < MIN_DELAY")
	}
}

// clearEnv unsets every recognized variable so tests see a clean slate.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"ROLE", "PORT", "FOLLOWERS", "WRITE_QUORUM", "MIN_DELAY", "MAX_DELAY"} {
		t.Setenv(key, "")
	}
}
