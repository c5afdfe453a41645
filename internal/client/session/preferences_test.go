package session

import (
	"context"
	"testing"

	"github.com/contactx/contactx/internal/client/repositories/metadata"
	"github.com/contactx/contactx/internal/common"
	"github.com/stretchr/testify/require"
)

func TestPreferences_ThemeModeDefaultsToSystem(t *testing.T) {
	p := NewPreferences(metadata.NewSQLiteRepository(setupDB(t)))

	mode, err := p.ThemeMode(context.Background())
	require.NoError(t, err)
	require.Equal(t, ThemeSystem, mode)
}

func TestPreferences_SetThemeMode(t *testing.T) {
	p := NewPreferences(metadata.NewSQLiteRepository(setupDB(t)))
	ctx := context.Background()

	require.NoError(t, p.SetThemeMode(ctx, ThemeDark))
	mode, err := p.ThemeMode(ctx)
	require.NoError(t, err)
	require.Equal(t, ThemeDark, mode)

	require.ErrorIs(t, p.SetThemeMode(ctx, "neon"), common.ErrInvalidData)
}

func TestPreferences_CustomColors(t *testing.T) {
	p := NewPreferences(metadata.NewSQLiteRepository(setupDB(t)))
	ctx := context.Background()

	colors, err := p.CustomColors(ctx)
	require.NoError(t, err)
	require.Empty(t, colors)

	require.NoError(t, p.SetCustomColors(ctx, map[string]string{"primary": "#7C3AED", "accent": "#fff"}))
	colors, err = p.CustomColors(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"primary": "#7C3AED", "accent": "#fff"}, colors)

	require.ErrorIs(t, p.SetCustomColors(ctx, map[string]string{"primary": "purple"}), common.ErrInvalidData)

	require.NoError(t, p.ResetCustomColors(ctx))
	colors, err = p.CustomColors(ctx)
	require.NoError(t, err)
	require.Empty(t, colors)
}
