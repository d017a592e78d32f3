package userinteraction

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"browser-command-agent/internal/domain/entity"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	goleak.VerifyTestMain(m)
}

func TestReadInstruction_LinesThenEOF(t *testing.T) {
	var out bytes.Buffer
	c := NewConsoleUserInteraction("[Agent]", "Enter a task: ", WithIO(strings.NewReader("open example.com\n\nsearch cats"), &out))
	ctx := context.Background()

	first, err := c.ReadInstruction(ctx)
	require.NoError(t, err)
	assert.Equal(t, "open example.com", first)

	blank, err := c.ReadInstruction(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", blank)

	last, err := c.ReadInstruction(ctx)
	require.NoError(t, err)
	assert.Equal(t, "search cats", last)

	_, err = c.ReadInstruction(ctx)
	assert.ErrorIs(t, err, io.EOF)

	assert.Equal(t, 4, strings.Count(out.String(), "Enter a task: "))
}

func TestReadInstruction_LongLineThenNext(t *testing.T) {
	long := "search " + strings.Repeat("a", 70*1024)
	c := NewConsoleUserInteraction("[Agent]", "> ", WithIO(strings.NewReader(long+"\nopen example.com\n"), io.Discard))
	ctx := context.Background()

	first, err := c.ReadInstruction(ctx)
	require.NoError(t, err)
	assert.Equal(t, long, first)

	second, err := c.ReadInstruction(ctx)
	require.NoError(t, err)
	assert.Equal(t, "open example.com", second)

	_, err = c.ReadInstruction(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadInstruction_CRLF(t *testing.T) {
	c := NewConsoleUserInteraction("[Agent]", "> ", WithIO(strings.NewReader("click Docs\r\nbye\r\n"), io.Discard))
	ctx := context.Background()

	first, err := c.ReadInstruction(ctx)
	require.NoError(t, err)
	assert.Equal(t, "click Docs", first)

	second, err := c.ReadInstruction(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bye", second)
}

func TestReadInstruction_CancelledContext(t *testing.T) {
	c := NewConsoleUserInteraction("[Agent]", "> ", WithIO(strings.NewReader(""), io.Discard))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ReadInstruction(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadInstruction_CancelWhileWaiting(t *testing.T) {
	pr, pw := io.Pipe()
	c := NewConsoleUserInteraction("[Agent]", "> ", WithIO(pr, io.Discard))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.ReadInstruction(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// let the reader goroutine finish
	require.NoError(t, pw.Close())
	_, err = c.ReadInstruction(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	return 0, errors.New("device not configured")
}

func TestReadInstruction_ReadError(t *testing.T) {
	c := NewConsoleUserInteraction("[Agent]", "> ", WithIO(failingReader{}, io.Discard))

	_, err := c.ReadInstruction(context.Background())
	assert.ErrorContains(t, err, "device not configured")

	_, err = c.ReadInstruction(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestShowMessages(t *testing.T) {
	var out bytes.Buffer
	c := NewConsoleUserInteraction("[Assistant]", "> ", WithIO(strings.NewReader(""), &out))
	ctx := context.Background()
	cmd := entity.NewCommand("click", "Docs")

	c.ShowActionStart(ctx, cmd, "Looking for a link containing 'Docs'…")
	c.ShowOutcome(ctx, entity.Outcome{Command: cmd, Status: entity.OutcomeSuccess, Message: "Clicked link containing 'Docs'."})
	c.ShowOutcome(ctx, entity.Outcome{Command: cmd, Status: entity.OutcomeNotFound, Message: "no matching link found"})
	c.ShowError(ctx, "Failed to plan action", entity.NewPlanError(entity.ErrMissingCredential, "", nil))
	c.ShowInfo(ctx, "Exiting agent.")

	assert.Equal(t, strings.Join([]string{
		"[Assistant] Looking for a link containing 'Docs'…",
		"[Assistant] Clicked link containing 'Docs'.",
		"[Assistant] No matching link found",
		"[Assistant] Failed to plan action: missing API credential",
		"[Assistant] Exiting agent.",
		"",
	}, "\n"), out.String())
}
