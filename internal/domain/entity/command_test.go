package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCommand_ValidKinds(t *testing.T) {
	tests := []struct {
		label    string
		argument string
		kind     CommandKind
	}{
		{"open", "example.com", CommandOpen},
		{"SEARCH", "cats", CommandSearch},
		{" Click ", "Wikipedia", CommandClick},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			cmd := NewCommand(tt.label, tt.argument)
			assert.Equal(t, tt.kind, cmd.Kind())
			assert.Equal(t, tt.argument, cmd.Argument())
			assert.Empty(t, cmd.Label())
			assert.True(t, cmd.IsRecognized())
		})
	}
}

func TestNewCommand_MissingArgument(t *testing.T) {
	for _, label := range []string{"open", "search", "click"} {
		cmd := NewCommand(label, "   ")
		assert.Equal(t, CommandUnrecognized, cmd.Kind(), label)
		assert.Empty(t, cmd.Argument(), label)
		assert.Equal(t, label, cmd.Label())
	}
}

func TestNewCommand_UnknownLabel(t *testing.T) {
	cmd := NewCommand("fly", "to the moon")

	assert.Equal(t, CommandUnrecognized, cmd.Kind())
	assert.Empty(t, cmd.Argument())
	assert.Equal(t, "fly", cmd.Label())
	assert.Equal(t, "unrecognized", cmd.String())
}

func TestCommand_ZeroValueIsUnrecognized(t *testing.T) {
	var cmd Command
	assert.Equal(t, CommandUnrecognized, cmd.Kind())
	assert.False(t, cmd.IsRecognized())
}

func TestPlanResponse_ToCommand(t *testing.T) {
	cmd := PlanResponse{Command: "Search", Args: "cats"}.ToCommand()
	assert.Equal(t, NewCommand("search", "cats"), cmd)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		line string
		want Signal
	}{
		{"", SignalNoop},
		{"   \t ", SignalNoop},
		{"exit", SignalExit},
		{"  QUIT ", SignalExit},
		{"Bye", SignalExit},
		{"bye now", SignalInstruction},
		{"open example.com", SignalInstruction},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.line), "line %q", tt.line)
	}
}

func TestPlanError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewPlanError(ErrPlannerTransport, "", cause)

	assert.ErrorIs(t, err, ErrPlannerTransport)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")

	malformed := NewPlanError(ErrMalformedResponse, "not json", nil)
	assert.ErrorIs(t, malformed, ErrMalformedResponse)
	assert.NotErrorIs(t, malformed, ErrPlannerTransport)
	assert.Equal(t, "malformed model response: not json", malformed.Error())

	var planErr *PlanError
	assert.True(t, errors.As(error(malformed), &planErr))
	assert.Equal(t, "not json", planErr.Raw)
}
