package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/de-tools/finance-atlas/pkg/models/domain"
	"gopkg.in/ini.v1"
)

// Registry resolves board API profiles from an ini file, one section per profile:
//
//	[DEFAULT]
//	api_url      = https://api.monday.com/v2
//	api_key      = ...
//	sales_boards = sales_non_immigrant:12345, sales_immigrant:67890
type Registry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetProfile(ctx context.Context, profile string) (*domain.BoardProfile, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load board profiles: %w", err)
	}
	return &cfgRegistry{cfg: cfg}, nil
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (cr *cfgRegistry) GetProfile(_ context.Context, profile string) (*domain.BoardProfile, error) {
	section, err := cr.cfg.GetSection(profile)
	if err != nil || len(section.Keys()) == 0 {
		return nil, fmt.Errorf("profile %s not found", profile)
	}

	boards, err := ParseBoards(section.Key("sales_boards").String())
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", profile, err)
	}

	p := &domain.BoardProfile{
		Name:        profile,
		APIURL:      section.Key("api_url").MustString("https://api.monday.com/v2"),
		APIKey:      section.Key("api_key").String(),
		SalesBoards: boards,
	}
	if p.APIKey == "" {
		return nil, fmt.Errorf("profile %s has no api_key", profile)
	}
	return p, nil
}

// ParseBoards reads a comma separated list of name:id pairs. A bare id is named after itself.
func ParseBoards(s string) ([]domain.Board, error) {
	var boards []domain.Board
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, id, found := strings.Cut(part, ":")
		if !found {
			name, id = part, part
		}
		name, id = strings.TrimSpace(name), strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("board %q has no id", name)
		}
		boards = append(boards, domain.Board{Name: name, ID: id})
	}
	if len(boards) == 0 {
		return nil, fmt.Errorf("no sales boards configured")
	}
	return boards, nil
}
