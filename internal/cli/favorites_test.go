package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShow_PrintsDetails(t *testing.T) {
	api := &fakeDiscovery{details: map[string]map[string]any{
		"e1": rawEvent("e1", "Jazz Night", "2024-03-22"),
	}}
	env, _ := newTestEnv(t, api)

	var err error
	out := captureOutput(t, func() {
		err = (&ShowCommand{ID: "e1", globals: &GlobalFlags{}}).executeWithEnv(context.Background(), env)
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Jazz Night")
	assert.Contains(t, out, "Next Fri at 7:30 PM (2024-03-22)")
	assert.Contains(t, out, "Venue:    Blue Note")
	assert.Contains(t, out, "Price:    $45 - $120")
	assert.Contains(t, out, "Category: Music / Jazz")
	assert.Contains(t, out, "Tickets:  https://tickets.example/e1")
	assert.NotContains(t, out, "★")
}

func TestShow_JSONMarksFavorite(t *testing.T) {
	api := &fakeDiscovery{details: map[string]map[string]any{
		"e1": rawEvent("e1", "Jazz Night", "2024-03-22"),
	}}
	env, _ := newTestEnv(t, api)
	ctx := context.Background()
	_, err := env.filters.ToggleFavorite(ctx, "e1")
	require.NoError(t, err)

	out := captureOutput(t, func() {
		err = (&ShowCommand{ID: "e1", globals: &GlobalFlags{JSON: true}}).executeWithEnv(ctx, env)
	})
	require.NoError(t, err)

	var got showJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.Favorite)
	assert.Equal(t, "e1", got.Event.ID)
	require.NotNil(t, got.Event.Venue)
	assert.Equal(t, "New York", got.Event.Venue.City)
}

func TestShow_NotFound(t *testing.T) {
	env, _ := newTestEnv(t, &fakeDiscovery{})
	err := (&ShowCommand{ID: "nope", globals: &GlobalFlags{}}).executeWithEnv(context.Background(), env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "event not found: nope")
}

func TestShow_RequiresID(t *testing.T) {
	err := (&ShowCommand{globals: &GlobalFlags{}}).Execute(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--id is required")
}

func TestFavorite_Toggles(t *testing.T) {
	env, _ := newTestEnv(t, nil)
	ctx := context.Background()
	cmd := &FavoriteCommand{ID: "e1", globals: &GlobalFlags{}}

	out := captureOutput(t, func() { require.NoError(t, cmd.executeWithEnv(ctx, env)) })
	assert.Contains(t, out, "Added e1 to favorites.")
	assert.True(t, env.filters.IsFavorite("e1"))

	out = captureOutput(t, func() { require.NoError(t, cmd.executeWithEnv(ctx, env)) })
	assert.Contains(t, out, "Removed e1 from favorites.")
	assert.False(t, env.filters.IsFavorite("e1"))
}

func TestFavorites_Empty(t *testing.T) {
	env, _ := newTestEnv(t, nil)
	out := captureOutput(t, func() {
		require.NoError(t, (&FavoritesCommand{globals: &GlobalFlags{}}).executeWithEnv(context.Background(), env))
	})
	assert.Contains(t, out, "No favorites yet")
}

func TestFavorites_ListsAndReportsMissing(t *testing.T) {
	api := &fakeDiscovery{details: map[string]map[string]any{
		"a": rawEvent("a", "Alpha", "2024-03-15"),
		"c": rawEvent("c", "Gamma", "2024-03-16"),
	}}
	env, _ := newTestEnv(t, api)
	ctx := context.Background()
	for _, id := range []string{"a", "gone", "c"} {
		_, err := env.filters.ToggleFavorite(ctx, id)
		require.NoError(t, err)
	}

	var err error
	out := captureOutput(t, func() {
		err = (&FavoritesCommand{globals: &GlobalFlags{}}).executeWithEnv(ctx, env)
	})
	require.NoError(t, err)
	assert.Contains(t, out, "2 favorites")
	assert.Contains(t, out, "1. Alpha ★")
	assert.Contains(t, out, "Today")
	assert.Contains(t, out, "2. Gamma ★")
	assert.Contains(t, out, "1 favorites no longer exist: [gone]")

	// Without --prune the id is kept.
	assert.True(t, env.filters.IsFavorite("gone"))
}

func TestFavorites_PruneAndExport(t *testing.T) {
	api := &fakeDiscovery{details: map[string]map[string]any{
		"a": rawEvent("a", "Alpha", "2024-03-15"),
	}}
	env, _ := newTestEnv(t, api)
	ctx := context.Background()
	for _, id := range []string{"a", "gone"} {
		_, err := env.filters.ToggleFavorite(ctx, id)
		require.NoError(t, err)
	}

	icsPath := filepath.Join(t.TempDir(), "favorites.ics")
	cmd := &FavoritesCommand{ICS: icsPath, Prune: true, globals: &GlobalFlags{JSON: true}}

	var err error
	out := captureOutput(t, func() { err = cmd.executeWithEnv(ctx, env) })
	require.NoError(t, err)

	var got favoritesJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Events, 1)
	assert.Equal(t, "a", got.Events[0].ID)
	assert.Equal(t, []string{"gone"}, got.Missing)
	assert.Empty(t, got.Failed)

	assert.Equal(t, []string{"a"}, env.filters.Favorites())

	data, err := os.ReadFile(icsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "BEGIN:VEVENT")
	assert.Contains(t, string(data), "UID:a@eventspot")
	assert.Contains(t, string(data), "SUMMARY:Alpha")
}

func TestFavorites_TotalFailureIsAnError(t *testing.T) {
	env, _ := newTestEnv(t, nil)
	env.api = failingAPI{}
	ctx := context.Background()
	_, err := env.filters.ToggleFavorite(ctx, "a")
	require.NoError(t, err)

	out := captureOutput(t, func() {
		err = (&FavoritesCommand{globals: &GlobalFlags{}}).executeWithEnv(ctx, env)
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not load any favorites")
	assert.Contains(t, err.Error(), "a: ")
	assert.NotContains(t, out, "None of your favorites")
	assert.True(t, env.filters.IsFavorite("a"), "failures never drop favorites")
}
