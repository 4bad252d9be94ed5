package cli

import (
	"bytes"
	"os"
	"strings"
	"testing"

	goflags "github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionFlag(t *testing.T) {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := RunWithArgs("0.1.0-test", []string{"--version"})

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	output := buf.String()

	assert.NoError(t, err)
	assert.Contains(t, output, "eventspot 0.1.0-test")
}

func TestVersionOutputFormat(t *testing.T) {
	output := captureOutput(t, func() {
		_ = RunWithArgs("1.2.3", []string{"--version"})
	})
	assert.Equal(t, "eventspot 1.2.3", strings.TrimSpace(output))
}

func TestAllSubcommandsRegistered(t *testing.T) {
	parser, _, _ := buildParser("test")
	for _, name := range []string{
		"search", "show", "favorite", "favorites", "history",
		"region", "clear-filters", "status", "reset",
	} {
		assert.NotNil(t, parser.Find(name), name)
	}
}

func TestUnknownSubcommandErrors(t *testing.T) {
	parser, _, _ := buildParser("test")
	parser.Options &^= goflags.PrintErrors
	_, err := parser.ParseArgs([]string{"ingest"})
	assert.Error(t, err)
}

func TestSearchFlagsParsed(t *testing.T) {
	parser, globals, cmds := buildParser("test")
	parser.CommandHandler = func(goflags.Commander, []string) error { return nil }

	rest, err := parser.ParseArgs([]string{
		"--json", "--verbose", "search",
		"--category", "music", "--region", "gb", "--date", "weekend",
		"--sort", "name_asc", "--size", "5", "--pages", "3", "--no-history",
		"jazz", "festival",
	})
	require.NoError(t, err)

	assert.True(t, globals.JSON)
	assert.True(t, globals.Verbose)
	s := cmds.Search
	assert.Equal(t, "music", s.Category)
	assert.Equal(t, "gb", s.Region)
	assert.Equal(t, "weekend", s.Date)
	assert.Equal(t, "name_asc", s.Sort)
	assert.Equal(t, 5, s.Size)
	assert.Equal(t, 3, s.Pages)
	assert.True(t, s.NoHistory)
	assert.Equal(t, []string{"jazz", "festival"}, rest)
}

func TestSearchDefaults(t *testing.T) {
	parser, _, cmds := buildParser("test")
	parser.CommandHandler = func(goflags.Commander, []string) error { return nil }

	_, err := parser.ParseArgs([]string{"search"})
	require.NoError(t, err)
	assert.Equal(t, "all", cmds.Search.Date)
	assert.Equal(t, 1, cmds.Search.Pages)
	assert.Zero(t, cmds.Search.Size)
}

func TestGlobalsSharedWithCommands(t *testing.T) {
	parser, globals, cmds := buildParser("test")
	parser.CommandHandler = func(goflags.Commander, []string) error { return nil }

	_, err := parser.ParseArgs([]string{"--config", "/tmp/x.yaml", "status"})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.yaml", globals.Config)
	assert.Same(t, globals, cmds.Status.globals)
	assert.Equal(t, 5, cmds.Status.Audit)
}
