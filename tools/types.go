package tools

import (
	"context"
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Status is the outcome class of a tool invocation. PASS and FAIL are
// deliberate verification verdicts; ERROR marks an unexpected fault and must
// not be conflated with FAIL by callers.
type Status string

const (
	StatusPass           Status = "PASS"
	StatusFail           Status = "FAIL"
	StatusSuccess        Status = "SUCCESS"
	StatusError          Status = "ERROR"
	StatusNotImplemented Status = "NOT_IMPLEMENTED"
)

// Invocation is a single named, argument-bearing request. Arguments are flat
// name -> string pairs; the dispatcher validates them against the tool's
// input schema before the handler runs.
type Invocation struct {
	ToolName  string            `json:"tool_name"`
	Arguments map[string]string `json:"arguments"`
}

// Result is the structured outcome returned for every invocation. Payload
// keys are stable per tool so callers can depend on them.
type Result struct {
	Status  Status            `json:"status"`
	Message string            `json:"message"`
	Payload map[string]string `json:"payload,omitempty"`
}

// Handler runs a tool against raw JSON arguments that have already passed
// schema validation.
type Handler func(ctx context.Context, input json.RawMessage) (*Result, error)

// ToolDefinition describes one registered tool: its wire name, the schema its
// arguments must satisfy, and the handler that produces a Result.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
	// Deprecated marks a legacy alias kept for old callers; invocations are
	// accepted but logged so hosts can migrate.
	Deprecated bool
	Handler    Handler
}

// GenerateSchema derives the JSON Schema for a tool input struct. Additional
// properties are disallowed so unrecognized argument keys fail validation.
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}
