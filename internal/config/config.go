package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Role selects which handler set a node registers at startup. It is fixed
// for the lifetime of the process.
type Role string

const (
	RoleLeader   Role = "leader"
	RoleFollower Role = "follower"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultPort     = 5000
	DefaultQuorum   = 1
	DefaultMinDelay = 0
	DefaultMaxDelay = 1000 * time.Millisecond
)

// Config holds the node configuration.
type Config struct {
	Role        Role
	Port        int
	Followers   []string // base URLs, leader only
	WriteQuorum int
	MinDelay    time.Duration // replication jitter lower bound
	MaxDelay    time.Duration // replication jitter upper bound
}

// FromEnv builds a Config from ROLE, PORT, FOLLOWERS, WRITE_QUORUM,
// MIN_DELAY and MAX_DELAY. Delays are given in milliseconds. FOLLOWERS is
// only consulted on a leader; followers ignore it.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Role:        RoleFollower,
		Port:        DefaultPort,
		WriteQuorum: DefaultQuorum,
		MinDelay:    DefaultMinDelay,
		MaxDelay:    DefaultMaxDelay,
	}

	if v := os.Getenv("ROLE"); v != "" {
		cfg.Role = Role(strings.ToLower(strings.TrimSpace(v)))
	}
	if cfg.Role != RoleLeader && cfg.Role != RoleFollower {
		return nil, fmt.Errorf("invalid ROLE %q (expected leader or follower)", os.Getenv("ROLE"))
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid PORT %q", v)
		}
		cfg.Port = port
	}

	if v := os.Getenv("WRITE_QUORUM"); v != "" {
		q, err := strconv.Atoi(v)
		if err != nil || q < 0 {
			return nil, fmt.Errorf("invalid WRITE_QUORUM %q (expected integer >= 0)", v)
		}
		cfg.WriteQuorum = q
	}

	var err error
	if cfg.MinDelay, err = delayFromEnv("MIN_DELAY", cfg.MinDelay); err != nil {
		return nil, err
	}
	if cfg.MaxDelay, err = delayFromEnv("MAX_DELAY", cfg.MaxDelay); err != nil {
		return nil, err
	}
	if cfg.MaxDelay < cfg.MinDelay {
		return nil, fmt.Errorf("MAX_DELAY %s is below MIN_DELAY %s", cfg.MaxDelay, cfg.MinDelay)
	}

	if cfg.Role == RoleLeader {
		cfg.Followers, err = ParseFollowers(os.Getenv("FOLLOWERS"))
		if err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// ParseFollowers parses a comma-separated list of follower base URLs, e.g.
// "http://follower1:5000,http://follower2:5000". Blank segments are skipped;
// each URL must be absolute.
func ParseFollowers(followersStr string) ([]string, error) {
	if strings.TrimSpace(followersStr) == "" {
		return nil, nil
	}

	parts := strings.Split(followersStr, ",")
	followers := make([]string, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		u, err := url.Parse(part)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid follower URL: %s", part)
		}

		followers = append(followers, strings.TrimRight(part, "/"))
	}

	return followers, nil
}

func delayFromEnv(name string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}

	ms, err := strconv.ParseFloat(v, 64)
	if err != nil || ms < 0 {
		return 0, fmt.Errorf("invalid %s %q (expected milliseconds >= 0)", name, v)
	}
	return time.Duration(ms * float64(time.Millisecond)), nil
}
