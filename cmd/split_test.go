package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testStudy = `[Event "Test Event"]
[Date "2024.01.01"]
[Result "*"]
[StudyName "My Study"]
[ChapterName "Chapter 1"]

1. e4 e5 {Open Game} (1... c5 {Sicilian}) 2. Nf3 *
`

func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	root := NewRootCmd()
	root.SetArgs(args)
	return root.Execute()
}

func TestSplitCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "study.pgn")
	require.NoError(t, os.WriteFile(input, []byte(testStudy), 0o644))
	outDir := filepath.Join(dir, "out")

	err := runCommand(t, "split", input, "-o", outDir)
	require.NoError(t, err)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "00_Main_Line_-_Open_Game.pgn", entries[0].Name())
	assert.Equal(t, "01_Sicilian.pgn", entries[1].Name())

	data, err := os.ReadFile(filepath.Join(outDir, "01_Sicilian.pgn"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "1. e4 c5 {Sicilian}")
	assert.Contains(t, string(data), `[ChapterName "Chapter 1: Sicilian"]`)
}

func TestSplitCommandConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "study.pgn")
	require.NoError(t, os.WriteFile(input, []byte(testStudy), 0o644))

	config := "output_dir: " + filepath.Join(dir, "cfgout") + "\nheaders:\n  Event: Overridden\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFilename), []byte(config), 0o644))

	require.NoError(t, runCommand(t, "split", input))

	data, err := os.ReadFile(filepath.Join(dir, "cfgout", "01_Sicilian.pgn"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `[Event "Overridden"]`)
}

func TestSplitCommandDryRun(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "study.pgn")
	require.NoError(t, os.WriteFile(input, []byte(testStudy), 0o644))
	outDir := filepath.Join(dir, "out")

	require.NoError(t, runCommand(t, "split", input, "-o", outDir, "--dry-run"))

	_, err := os.Stat(outDir)
	assert.True(t, os.IsNotExist(err), "dry run writes nothing")
}

func TestSplitCommandParseFailure(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "broken.pgn")
	require.NoError(t, os.WriteFile(input, []byte("1. e4 e5) *"), 0o644))

	err := runCommand(t, "split", input, "-o", filepath.Join(dir, "out"))
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "out"))
	assert.True(t, os.IsNotExist(statErr), "nothing is written on a parse error")
}
