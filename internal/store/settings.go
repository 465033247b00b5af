package store

import (
	"context"
	"fmt"
	"strconv"
)

// Setting keys, stored independently of the collections.
const (
	KeyTheme    = "theme"
	KeyAutosave = "autosave"
)

// Theme is the UI colour scheme preference.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// ParseTheme accepts "dark" or "light".
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeDark, ThemeLight:
		return Theme(s), nil
	}
	return "", fmt.Errorf("unknown theme %q, expected dark or light", s)
}

// Settings reads and writes user preferences.
type Settings struct {
	kv KV
}

func NewSettings(kv KV) *Settings {
	return &Settings{kv: kv}
}

// Theme returns the stored theme, defaulting to dark when unset or unreadable.
func (s *Settings) Theme(ctx context.Context) Theme {
	raw, ok, err := s.kv.Get(ctx, KeyTheme)
	if err != nil || !ok {
		return ThemeDark
	}
	t, err := ParseTheme(string(raw))
	if err != nil {
		return ThemeDark
	}
	return t
}

func (s *Settings) SetTheme(ctx context.Context, t Theme) error {
	if _, err := ParseTheme(string(t)); err != nil {
		return err
	}
	return s.kv.Set(ctx, KeyTheme, []byte(t))
}

// Autosave reports whether autosave is enabled, defaulting to false.
func (s *Settings) Autosave(ctx context.Context) bool {
	raw, ok, err := s.kv.Get(ctx, KeyAutosave)
	if err != nil || !ok {
		return false
	}
	enabled, err := strconv.ParseBool(string(raw))
	return err == nil && enabled
}

func (s *Settings) SetAutosave(ctx context.Context, enabled bool) error {
	return s.kv.Set(ctx, KeyAutosave, []byte(strconv.FormatBool(enabled)))
}
