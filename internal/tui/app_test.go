package tui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/jarlaunch/internal/modes"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, model tea.Model, msgs ...tea.Msg) (tea.Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		model, cmd = model.Update(msg)
	}
	return model, cmd
}

func TestModePickerSelectsOnDigit(t *testing.T) {
	for _, m := range modes.All() {
		model, cmd := press(t, NewModePicker(`C:\Mods`), runeKey(m.Key()))
		picker := model.(ModePicker)
		got, ok := picker.Selected()
		require.True(t, ok)
		assert.Equal(t, m, got)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}
}

func TestModePickerIgnoresOtherKeys(t *testing.T) {
	model, cmd := press(t, NewModePicker("/mods"),
		runeKey("4"), runeKey("q"), tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyEsc},
	)
	picker := model.(ModePicker)
	_, ok := picker.Selected()
	assert.False(t, ok)
	assert.False(t, picker.Cancelled())
	assert.Nil(t, cmd)
	assert.Contains(t, picker.View(), "Choose a processing mode")
}

func TestModePickerKeepsFirstValidKey(t *testing.T) {
	model, _ := press(t, NewModePicker("/mods"), runeKey("9"), runeKey("2"))
	got, ok := model.(ModePicker).Selected()
	require.True(t, ok)
	assert.Equal(t, modes.Direct, got)
	assert.Contains(t, model.View(), "Direct")
}

func TestModePickerCtrlCCancels(t *testing.T) {
	model, cmd := press(t, NewModePicker("/mods"), tea.KeyMsg{Type: tea.KeyCtrlC})
	picker := model.(ModePicker)
	assert.True(t, picker.Cancelled())
	require.NotNil(t, cmd)
}

func TestModePickerViewListsAllModes(t *testing.T) {
	view := NewModePicker("/mods").View()
	for _, m := range modes.All() {
		assert.Contains(t, view, m.Title())
		assert.Contains(t, view, "["+m.Key()+"]")
	}
}

func TestPausePromptQuitsOnAnyKey(t *testing.T) {
	p := NewPausePrompt("")
	assert.Contains(t, p.View(), "Press any key")

	model, cmd := press(t, p, tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.False(t, model.(PausePrompt).Done())
	assert.Nil(t, cmd)

	model, cmd = press(t, model, runeKey("z"))
	assert.True(t, model.(PausePrompt).Done())
	require.NotNil(t, cmd)
}

func TestLinesPickModeSkipsInvalidLines(t *testing.T) {
	var out bytes.Buffer
	l := NewLines(strings.NewReader("\nfoo\n5\n3\n"), &out)

	m, err := l.PickMode(context.Background(), "/mods")

	require.NoError(t, err)
	assert.Equal(t, modes.CombinedContext, m)
	assert.Contains(t, out.String(), "[1] Context")
	assert.Equal(t, 4, strings.Count(out.String(), "Select [1,2,3]"))
}

func TestModePickerQuitFollowsKeyMap(t *testing.T) {
	picker := NewModePicker("/mods")
	picker.keys.Quit = key.NewBinding(key.WithKeys("esc"))

	model, cmd := press(t, picker, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.False(t, model.(ModePicker).Cancelled())
	assert.Nil(t, cmd)

	model, cmd = press(t, model, tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, model.(ModePicker).Cancelled())
	require.NotNil(t, cmd)
}

func TestLinesPickModeRequiresSingleKey(t *testing.T) {
	l := NewLines(strings.NewReader("1abc\n3 please\n 2 \n"), nil)

	m, err := l.PickMode(context.Background(), "/mods")

	require.NoError(t, err)
	assert.Equal(t, modes.Direct, m)
}

func TestLinesPickModeStopsOnCancelWhileReading(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	l := NewLines(pr, nil)
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)
	go func() {
		_, err := l.PickMode(ctx, "/mods")
		errc <- err
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("PickMode still blocked after cancel")
	}

	// The abandoned read still delivers its line to the next prompt.
	go func() { _, _ = pw.Write([]byte("2\n")) }()
	m, err := l.PickMode(context.Background(), "/mods")
	require.NoError(t, err)
	assert.Equal(t, modes.Direct, m)
}

func TestLinesPauseStopsOnCancelWhileReading(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	l := NewLines(pr, nil)
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)
	go func() { errc <- l.Pause(ctx, "") }()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Pause still blocked after cancel")
	}
}

func TestLinesPickModeAcceptsFinalLineWithoutNewline(t *testing.T) {
	l := NewLines(strings.NewReader("1"), nil)
	m, err := l.PickMode(context.Background(), "/mods")
	require.NoError(t, err)
	assert.Equal(t, modes.Context, m)
}

func TestLinesPickModeEOFCancels(t *testing.T) {
	l := NewLines(strings.NewReader("x\n"), nil)
	_, err := l.PickMode(context.Background(), "/mods")
	assert.True(t, errors.Is(err, ErrCancelled))
}

func TestLinesPickModeHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLines(strings.NewReader("1\n"), nil).PickMode(ctx, "/mods")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLinesPause(t *testing.T) {
	var out bytes.Buffer
	l := NewLines(strings.NewReader(""), &out)
	require.NoError(t, l.Pause(context.Background(), "Done."))
	assert.Equal(t, "Done.\n", out.String())
}

func TestNewPrompterFallsBackToLines(t *testing.T) {
	assert.IsType(t, &Lines{}, NewPrompter(nil, nil))
}

func TestBanner(t *testing.T) {
	banner := DefaultStyles().Banner("jarlaunch")
	assert.Contains(t, banner, "jarlaunch")
	assert.Equal(t, 3, strings.Count(banner, "\n")+1)
}
