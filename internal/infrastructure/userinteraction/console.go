package userinteraction

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"browser-command-agent/internal/application/port/output"
	"browser-command-agent/internal/domain/entity"

	"github.com/fatih/color"
)

var (
	_ output.UserInteractionPort = (*ConsoleUserInteraction)(nil)
	_ output.InputPort           = (*ConsoleUserInteraction)(nil)
)

type line struct {
	text string
	err  error
}

// ConsoleUserInteraction reads one instruction per line and prints tagged
// status lines. A single reader goroutine feeds lines so that a pending read
// can be abandoned when the context is cancelled.
type ConsoleUserInteraction struct {
	in     io.Reader
	out    io.Writer
	tag    string
	prompt string

	startOnce sync.Once
	lines     chan line
}

type Option func(*ConsoleUserInteraction)

func WithIO(in io.Reader, out io.Writer) Option {
	return func(c *ConsoleUserInteraction) {
		c.in = in
		c.out = out
	}
}

func NewConsoleUserInteraction(tag, prompt string, opts ...Option) *ConsoleUserInteraction {
	c := &ConsoleUserInteraction{
		in:     os.Stdin,
		out:    color.Output,
		tag:    tag,
		prompt: prompt,
		lines:  make(chan line),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *ConsoleUserInteraction) ReadInstruction(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c.startOnce.Do(func() { go c.readLines() })

	fmt.Fprint(c.out, c.prompt)

	select {
	case <-ctx.Done():
		fmt.Fprintln(c.out)
		return "", ctx.Err()
	case l, ok := <-c.lines:
		if !ok {
			fmt.Fprintln(c.out)
			return "", io.EOF
		}
		if l.err != nil {
			return "", fmt.Errorf("failed to read user input: %w", l.err)
		}
		return l.text, nil
	}
}

// readLines sends one entry per line, without its line terminator. Lines
// have no length limit. A final line without a newline is still delivered.
func (c *ConsoleUserInteraction) readLines() {
	defer close(c.lines)

	reader := bufio.NewReader(c.in)
	for {
		text, err := reader.ReadString('\n')
		if text != "" {
			c.lines <- line{text: strings.TrimRight(text, "\r\n")}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				c.lines <- line{err: err}
			}
			return
		}
	}
}

func (c *ConsoleUserInteraction) ShowBanner(ctx context.Context, text string) {
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Fprintln(c.out, text)
}

func (c *ConsoleUserInteraction) ShowActionStart(ctx context.Context, cmd entity.Command, detail string) {
	yellow := color.New(color.FgYellow)
	yellow.Fprintf(c.out, "%s %s\n", c.tag, detail)
}

func (c *ConsoleUserInteraction) ShowOutcome(ctx context.Context, outcome entity.Outcome) {
	switch outcome.Status {
	case entity.OutcomeSuccess:
		green := color.New(color.FgGreen)
		green.Fprintf(c.out, "%s %s\n", c.tag, outcome.Message)
	case entity.OutcomeUsage:
		dim := color.New(color.Faint)
		dim.Fprintf(c.out, "%s %s\n", c.tag, outcome.Message)
	default:
		red := color.New(color.FgRed)
		red.Fprintf(c.out, "%s %s\n", c.tag, capitalize(outcome.Message))
	}
}

func (c *ConsoleUserInteraction) ShowError(ctx context.Context, message string, err error) {
	red := color.New(color.FgRed)
	if err == nil {
		red.Fprintf(c.out, "%s %s\n", c.tag, message)
		return
	}
	red.Fprintf(c.out, "%s %s: %v\n", c.tag, message, err)
}

func (c *ConsoleUserInteraction) ShowInfo(ctx context.Context, message string) {
	fmt.Fprintf(c.out, "%s %s\n", c.tag, message)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
