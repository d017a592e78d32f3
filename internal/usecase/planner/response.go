package planner

import (
	"bytes"
	"errors"
	"strings"

	"browser-command-agent/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	errNotObject      = errors.New("response is not a JSON object")
	errMissingCommand = errors.New(`"command" key is missing`)
	errCommandType    = errors.New(`"command" must be a string`)
)

// syntaxError reports a short cause to the user. The decoder's message, which
// quotes the input again, stays reachable through Unwrap for logging.
type syntaxError struct {
	err error
}

func (e *syntaxError) Error() string { return errNotObject.Error() }

func (e *syntaxError) Unwrap() error { return e.err }

// DecodePlanResponse validates the model reply against the
// {"command": string, "args": string} contract. "args" may be absent or of
// another JSON type; it is coerced to text.
func DecodePlanResponse(raw string) (entity.PlanResponse, error) {
	if strings.TrimSpace(raw) == "" {
		return entity.PlanResponse{}, entity.NewPlanError(entity.ErrMalformedResponse, raw, errNotObject)
	}

	var fields map[string]jsoniter.RawMessage
	if err := json.UnmarshalFromString(raw, &fields); err != nil {
		return entity.PlanResponse{}, entity.NewPlanError(entity.ErrMalformedResponse, raw, &syntaxError{err: err})
	}
	if fields == nil {
		return entity.PlanResponse{}, entity.NewPlanError(entity.ErrMalformedResponse, raw, errNotObject)
	}

	rawCommand, ok := fields["command"]
	if !ok {
		return entity.PlanResponse{}, entity.NewPlanError(entity.ErrUnexpectedShape, raw, errMissingCommand)
	}

	var command string
	if err := json.Unmarshal(rawCommand, &command); err != nil || isNull(rawCommand) {
		return entity.PlanResponse{}, entity.NewPlanError(entity.ErrUnexpectedShape, raw, errCommandType)
	}

	args, err := coerceArgs(fields["args"])
	if err != nil {
		return entity.PlanResponse{}, entity.NewPlanError(entity.ErrUnexpectedShape, raw, err)
	}

	return entity.PlanResponse{
		Command: strings.ToLower(strings.TrimSpace(command)),
		Args:    args,
	}, nil
}

func coerceArgs(raw jsoniter.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || isNull(trimmed) {
		return "", nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return s, nil
	case '[', '{':
		var v any
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return "", err
		}
		return json.MarshalToString(v)
	default:
		// numbers and booleans keep their literal text
		return string(trimmed), nil
	}
}

func isNull(raw []byte) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}
