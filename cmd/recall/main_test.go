package main

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/recall/internal/content"
	"github.com/at-ishikawa/recall/internal/datasync"
	"github.com/at-ishikawa/recall/internal/generation"
	"github.com/at-ishikawa/recall/internal/session"
	"github.com/at-ishikawa/recall/internal/statistics"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		debugMode bool
		wantDebug bool
	}{
		{name: "debug mode enabled", debugMode: true, wantDebug: true},
		{name: "debug mode disabled", debugMode: false, wantDebug: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupLogger(tt.debugMode)
			assert.Equal(t, tt.wantDebug, slog.Default().Enabled(context.Background(), slog.LevelDebug))
		})
	}
}

func TestNewRootCommand(t *testing.T) {
	var debugMode bool
	cmd := newRootCommand(&debugMode)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"migrate", "import", "generate", "grant", "study", "stats"}, names)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("debug"))
}

func TestNewStudyCommand_ModeFlag(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    string
		wantErr bool
	}{
		{name: "default", want: string(session.ModeNormal)},
		{name: "hyphenated", value: "wrong-only", want: string(session.ModeWrongOnly)},
		{name: "sm2", value: "SM2", want: string(session.ModeSM2)},
		{name: "unknown", value: "shuffle", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newStudyCommand()
			args := []string{"--learner", "7", "--module", "3"}
			if tt.value != "" {
				args = append(args, "--mode", tt.value)
			}
			err := cmd.ParseFlags(args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cmd.Flags().Lookup("mode").Value.String())
		})
	}
}

func TestImportCommand_RequiresFile(t *testing.T) {
	cmd := newImportCommand()
	assert.Error(t, cmd.Args(cmd, nil))
	assert.NoError(t, cmd.Args(cmd, []string{"module.yml"}))
	assert.NotNil(t, cmd.Flags().Lookup("dry-run"))
}

func TestParseItemTypes(t *testing.T) {
	got, err := parseItemTypes([]string{"flashcard", "true_false"})
	require.NoError(t, err)
	assert.Equal(t, []content.ItemType{content.ItemTypeFlashcard, content.ItemTypeTrueFalse}, got)

	_, err = parseItemTypes([]string{"essay"})
	assert.ErrorIs(t, err, content.ErrUnknownItemType)
}

func TestGeneratedDocument(t *testing.T) {
	module := content.Module{ID: 3, Title: "Capitals"}

	t.Run("items are keyed and hashed", func(t *testing.T) {
		doc, err := generatedDocument(module, []generation.GeneratedItem{
			{Key: "france", Payload: content.Flashcard{Front: "France", Back: "Paris"}},
			{Key: "japan", Payload: content.TrueFalse{Statement: "Tokyo is the capital of Japan", Answer: true}},
		})
		require.NoError(t, err)
		assert.Equal(t, module, doc.Module)
		require.Len(t, doc.Items, 2)
		assert.Equal(t, "france", doc.Items[0].Key)
		assert.Equal(t, int64(3), doc.Items[0].ModuleID)
		assert.Equal(t, 1, doc.Items[1].Position)
		assert.Equal(t, content.ItemTypeTrueFalse, doc.Items[1].Type)
		assert.NotEmpty(t, doc.Items[1].ContentHash)
	})

	t.Run("duplicate keys are rejected", func(t *testing.T) {
		_, err := generatedDocument(module, []generation.GeneratedItem{
			{Key: "france", Payload: content.Flashcard{Front: "France", Back: "Paris"}},
			{Key: "france", Payload: content.Flashcard{Front: "France?", Back: "Paris"}},
		})
		assert.ErrorContains(t, err, `duplicate key "france"`)
	})
}

func TestPrintImportResult(t *testing.T) {
	var out bytes.Buffer
	printImportResult(&out, &datasync.ImportResult{
		ModuleID:      3,
		ItemsNew:      2,
		ItemsUpdated:  1,
		ItemsSkipped:  4,
		StaleProgress: []string{"france"},
	}, true)

	assert.Equal(t, "Dry run, nothing was written\n"+
		"Module 3: 2 new, 1 updated, 0 moved, 4 skipped, 0 not in file\n"+
		"  [STALE] france: progress was recorded against the previous content\n", out.String())
}

func TestPrintSummary(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var out bytes.Buffer
	require.NoError(t, printSummary(&out, statistics.Summary{
		ModuleID:       3,
		TotalItems:     4,
		StudiedItems:   3,
		DueItems:       3,
		StaleItems:     1,
		CorrectAnswers: 4,
		WrongAnswers:   1,
		Accuracy:       0.8,
		Boxes:          [5]int{1, 0, 1, 0, 0},
	}))

	got := out.String()
	assert.Contains(t, got, "Module 3\n")
	assert.Contains(t, got, "Answers                4 correct, 1 wrong (80%)\n")
	assert.Contains(t, got, "Box 1                  1\n")
	assert.Contains(t, got, "Changed since studied  1\n")
}
