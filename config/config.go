// ABOUTME: Configuration for the collaborator API connection
// ABOUTME: Handles XDG config storage, environment overrides, and client ID generation
package config

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

const (
	// AppName is used for XDG paths and the client user agent.
	AppName = "leadboard"

	// ConfigFileName is where we store local config.
	ConfigFileName = "config.json"

	// DefaultAPIURL points at a locally running collaborator (see the
	// serve command).
	DefaultAPIURL = "http://localhost:8311"
)

// Config holds collaborator API settings and the local identity.
type Config struct {
	// APIURL is the base URL of the marketplace backend.
	APIURL string `json:"api_url"`

	// Token is the bearer token sent with every request.
	Token string `json:"token,omitempty"`

	// MemberID identifies the signed-in team member; it backs the "me"
	// assignee filter.
	MemberID uuid.UUID `json:"member_id,omitempty"`

	// ClientID is a stable per-install ULID used to tag requests.
	ClientID string `json:"client_id,omitempty"`
}

// Dir returns the XDG-compliant directory for leadboard data.
func Dir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Path returns the XDG-compliant path of the config file.
func Path() string {
	return filepath.Join(Dir(), ConfigFileName)
}

// DefaultDBPath is where the serve command keeps its SQLite database.
func DefaultDBPath() string {
	return filepath.Join(Dir(), "leadboard.db")
}

// DefaultCachePath is where the board snapshot cache lives.
func DefaultCachePath() string {
	return filepath.Join(Dir(), "cache")
}

// Load reads config from disk, or returns defaults if not found.
// Environment variables override file values:
// - LEADBOARD_API_URL
// - LEADBOARD_TOKEN
// - LEADBOARD_MEMBER_ID.
func Load() (*Config, error) {
	cfg := &Config{APIURL: DefaultAPIURL}

	f, err := os.Open(Path())
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to open config: %w", err)
		}
		// File doesn't exist - fall through to env overrides
	} else {
		defer func() { _ = f.Close() }()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if v := os.Getenv("LEADBOARD_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("LEADBOARD_TOKEN"); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv("LEADBOARD_MEMBER_ID"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("invalid LEADBOARD_MEMBER_ID: %w", err)
		}
		cfg.MemberID = id
	}

	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.ClientID == "" {
		cfg.ClientID = GenerateClientID()
	}

	return cfg, nil
}

// Save writes config to the XDG data directory.
func Save(cfg *Config) error {
	if err := os.MkdirAll(Dir(), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(Path(), data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// GenerateClientID returns a new ULID identifying this install.
func GenerateClientID() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
