package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/de-tools/finance-atlas/pkg/models/domain"
	"github.com/de-tools/finance-atlas/pkg/services/config"
	"github.com/rs/zerolog"
)

const DefaultProfilesFile = ".financecfg"

type Options struct {
	ConfigPath   string
	ProfilesPath string
	Profile      string
	// RequireBoards fails bootstrap when no board profile can be resolved.
	RequireBoards bool
}

// DefaultProfilesPath is $HOME/.financecfg, or the bare file name when the home directory is unknown.
func DefaultProfilesPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultProfilesFile
	}
	return filepath.Join(home, DefaultProfilesFile)
}

func NewLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// LoadConfig reads the app config and applies flag overrides for the board profile.
func LoadConfig(opts Options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.ProfilesPath != "" {
		cfg.Board.ProfilePath = opts.ProfilesPath
	}
	if opts.Profile != "" {
		cfg.Board.Profile = opts.Profile
	}
	if cfg.Board.ProfilePath == "" {
		cfg.Board.ProfilePath = DefaultProfilesPath()
	}
	return cfg, nil
}

// LoadProfile resolves the configured board profile. A missing profile is an error only when
// required is set.
func LoadProfile(ctx context.Context, cfg *config.Config, required bool) (*domain.BoardProfile, error) {
	logger := zerolog.Ctx(ctx)

	registry, err := config.NewRegistry(cfg.Board.ProfilePath)
	if err != nil {
		if required {
			return nil, fmt.Errorf("failed to create config registry: %w", err)
		}
		logger.Debug().Err(err).Msg("no board profiles loaded")
		return nil, nil
	}

	profile, err := registry.GetProfile(ctx, cfg.Board.Profile)
	if err != nil {
		if required {
			return nil, err
		}
		logger.Debug().Err(err).Msg("board profile unavailable")
		return nil, nil
	}

	logger.Info().
		Str("profile", profile.Name).
		Int("boards", len(profile.SalesBoards)).
		Msgf("Configuration found at `%s` successfully loaded.", cfg.Board.ProfilePath)
	return profile, nil
}

// Bootstrap loads config and the board profile, then wires the services.
func Bootstrap(ctx context.Context, opts Options) (*App, error) {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}
	profile, err := LoadProfile(ctx, cfg, opts.RequireBoards)
	if err != nil {
		return nil, err
	}
	return New(ctx, cfg, profile)
}
