package session

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/contactx/contactx/internal/client/repositories/metadata"
	"github.com/contactx/contactx/internal/common"
)

type ThemeMode string

const (
	ThemeLight  ThemeMode = "light"
	ThemeDark   ThemeMode = "dark"
	ThemeSystem ThemeMode = "system"
)

func (m ThemeMode) Valid() bool {
	switch m {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	}
	return false
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// Preferences stores the theme mode and custom color overrides.
type Preferences struct {
	repo metadata.Repository
}

func NewPreferences(repo metadata.Repository) *Preferences {
	return &Preferences{repo: repo}
}

// ThemeMode returns the stored mode, ThemeSystem when unset.
func (p *Preferences) ThemeMode(ctx context.Context) (ThemeMode, error) {
	v, err := p.repo.Get(ctx, common.KeyThemeMode)
	if err != nil {
		return "", err
	}
	mode := ThemeMode(v)
	if !mode.Valid() {
		return ThemeSystem, nil
	}
	return mode, nil
}

func (p *Preferences) SetThemeMode(ctx context.Context, mode ThemeMode) error {
	if !mode.Valid() {
		return fmt.Errorf("theme mode %q: %w", mode, common.ErrInvalidData)
	}
	return p.repo.Set(ctx, common.KeyThemeMode, []byte(mode))
}

// CustomColors returns the color overrides keyed by palette slot.
func (p *Preferences) CustomColors(ctx context.Context) (map[string]string, error) {
	v, err := p.repo.Get(ctx, common.KeyCustomColors)
	if err != nil {
		return nil, err
	}
	colors := map[string]string{}
	if len(v) == 0 {
		return colors, nil
	}
	if err := json.Unmarshal(v, &colors); err != nil {
		return nil, fmt.Errorf("decode custom colors: %w", err)
	}
	return colors, nil
}

func (p *Preferences) SetCustomColors(ctx context.Context, colors map[string]string) error {
	for slot, c := range colors {
		if slot == "" || !hexColor.MatchString(c) {
			return fmt.Errorf("color %s=%q: %w", slot, c, common.ErrInvalidData)
		}
	}
	b, err := json.Marshal(colors)
	if err != nil {
		return err
	}
	return p.repo.Set(ctx, common.KeyCustomColors, b)
}

func (p *Preferences) ResetCustomColors(ctx context.Context) error {
	return p.repo.Delete(ctx, common.KeyCustomColors)
}
