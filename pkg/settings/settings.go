package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/energypilot/energypilot/pkg/storage"
	"github.com/energypilot/energypilot/pkg/types"
)

// Keys the dashboard state is stored under.
const (
	ConfigKey    = "energypilot_config"
	DemoModeKey  = "energypilot_demo_mode"
	OnboardedKey = "energypilot_onboarded"
)

// ErrInvalidConfig is returned by Save for a config that fails validation.
var ErrInvalidConfig = errors.New("invalid config")

// Store loads and saves the user's configuration and dashboard flags on top of
// a key-value store.
type Store struct {
	kv storage.Store
}

// New returns a Store backed by kv.
func New(kv storage.Store) *Store {
	return &Store{kv: kv}
}

// Load returns the stored config, or the defaults if none was ever saved.
func (s *Store) Load(ctx context.Context) (types.UserConfig, error) {
	b, err := s.kv.Get(ctx, ConfigKey)
	if errors.Is(err, storage.ErrNotFound) {
		return types.DefaultUserConfig(), nil
	}
	if err != nil {
		return types.UserConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	var cfg types.UserConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return types.UserConfig{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// Save validates cfg and replaces the stored config with it.
func (s *Store) Save(ctx context.Context, cfg types.UserConfig) error {
	if err := Validate(cfg); err != nil {
		return err
	}
	b, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := s.kv.Set(ctx, ConfigKey, b); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// DemoMode returns whether the dashboard runs on demo data. Defaults to false.
func (s *Store) DemoMode(ctx context.Context) (bool, error) {
	return s.getBool(ctx, DemoModeKey)
}

func (s *Store) SetDemoMode(ctx context.Context, on bool) error {
	return s.setBool(ctx, DemoModeKey, on)
}

// Onboarded returns whether the user finished onboarding. Defaults to false.
func (s *Store) Onboarded(ctx context.Context) (bool, error) {
	return s.getBool(ctx, OnboardedKey)
}

func (s *Store) SetOnboarded(ctx context.Context, done bool) error {
	return s.setBool(ctx, OnboardedKey, done)
}

// Reset removes everything, including the config and both flags.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.kv.Clear(ctx); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}
	return nil
}

func (s *Store) getBool(ctx context.Context, key string) (bool, error) {
	b, err := s.kv.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load %s: %w", key, err)
	}
	var v bool
	if err := json.Unmarshal(b, &v); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return v, nil
}

func (s *Store) setBool(ctx context.Context, key string, v bool) error {
	b, _ := json.Marshal(v)
	if err := s.kv.Set(ctx, key, b); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Validate checks the ranges and formats of cfg.
func Validate(cfg types.UserConfig) error {
	if math.IsNaN(cfg.MinBatterySOC) || cfg.MinBatterySOC < 0 || cfg.MinBatterySOC > 100 {
		return fmt.Errorf("%w: minBatterySOC must be between 0 and 100", ErrInvalidConfig)
	}
	if !isClock(cfg.DoNotDisturbStart) {
		return fmt.Errorf("%w: doNotDisturbStart must be HH:MM", ErrInvalidConfig)
	}
	if !isClock(cfg.DoNotDisturbEnd) {
		return fmt.Errorf("%w: doNotDisturbEnd must be HH:MM", ErrInvalidConfig)
	}
	if !cfg.DefaultStrategy.Valid() {
		return fmt.Errorf("%w: unknown defaultStrategy %q", ErrInvalidConfig, cfg.DefaultStrategy)
	}
	return nil
}

func isClock(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}
