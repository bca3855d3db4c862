// Package dispatch routes tool invocations to registered handlers. It owns
// the registry, validates arguments against each tool's JSON Schema before
// delegation, and converts handler faults into structured ERROR results so a
// single bad invocation never takes the process down.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/printforge/cadbridge/internal/telemetry"
	"github.com/printforge/cadbridge/tools"
)

// Previewer returns a short content preview for a file-path argument, or ""
// when the path is not readable. Used for logging only.
type Previewer func(path string) string

type entry struct {
	def      tools.ToolDefinition
	schema   *jsonschema.Schema
	allowed  map[string]bool
	required []string
}

// Dispatcher maps tool names to handlers and mediates every invocation.
type Dispatcher struct {
	entries map[string]entry
	log     *telemetry.Logger
	preview Previewer
}

// Option customizes a Dispatcher.
type Option func(*Dispatcher)

// WithPreviewer installs the content previewer applied to file-path-like
// arguments when logging invocations.
func WithPreviewer(p Previewer) Option {
	return func(d *Dispatcher) { d.preview = p }
}

// New compiles each tool's input schema and returns a ready Dispatcher.
func New(log *telemetry.Logger, defs []tools.ToolDefinition, opts ...Option) (*Dispatcher, error) {
	d := &Dispatcher{
		entries: make(map[string]entry, len(defs)),
		log:     log,
	}
	for _, opt := range opts {
		opt(d)
	}
	for _, def := range defs {
		e, err := newEntry(def)
		if err != nil {
			return nil, fmt.Errorf("tool %q: %w", def.Name, err)
		}
		d.entries[def.Name] = e
	}
	return d, nil
}

func newEntry(def tools.ToolDefinition) (entry, error) {
	raw, err := json.Marshal(def.InputSchema)
	if err != nil {
		return entry{}, fmt.Errorf("marshal input schema: %w", err)
	}

	// Keep the declared key sets around so validation failures can name the
	// offending argument instead of quoting a schema path.
	var decl struct {
		Properties map[string]json.RawMessage `json:"properties"`
		Required   []string                   `json:"required"`
	}
	if err := json.Unmarshal(raw, &decl); err != nil {
		return entry{}, fmt.Errorf("decode input schema: %w", err)
	}
	allowed := make(map[string]bool, len(decl.Properties))
	for k := range decl.Properties {
		allowed[k] = true
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return entry{}, fmt.Errorf("decode input schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", doc); err != nil {
		return entry{}, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := c.Compile("schema.json")
	if err != nil {
		return entry{}, fmt.Errorf("compile schema: %w", err)
	}

	return entry{def: def, schema: schema, allowed: allowed, required: decl.Required}, nil
}

// Tools returns the registered definitions sorted by name.
func (d *Dispatcher) Tools() []tools.ToolDefinition {
	out := make([]tools.ToolDefinition, 0, len(d.entries))
	for _, e := range d.entries {
		out = append(out, e.def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Dispatch validates inv and runs the matching handler. The returned error is
// non-nil only for pre-handler rejections (*UnknownToolError,
// *InvalidArgumentError); every handler outcome, including a panic, comes
// back as a *tools.Result.
func (d *Dispatcher) Dispatch(ctx context.Context, inv tools.Invocation) (res *tools.Result, err error) {
	id := uuid.NewString()
	ctx = telemetry.WithInvocationID(ctx, id)

	d.log.Infof("➡️ invocation %s: tool=%s args=%s", id, inv.ToolName, formatArgs(inv.Arguments))
	d.logPreviews(inv.Arguments)

	e, ok := d.entries[inv.ToolName]
	if !ok {
		uerr := &UnknownToolError{Name: inv.ToolName}
		d.log.Errorf("❌ invocation %s: %v", id, uerr)
		return nil, uerr
	}
	if e.def.Deprecated {
		d.log.Infof("⚠️ invocation %s: tool name %q is deprecated; use %q", id, inv.ToolName, tools.VerifyToolName)
	}

	if verr := e.validate(inv.Arguments); verr != nil {
		d.log.Errorf("❌ invocation %s: %v", id, verr)
		return nil, verr
	}

	raw, err := json.Marshal(inv.Arguments)
	if err != nil {
		return nil, &InvalidArgumentError{Tool: inv.ToolName, Reason: err.Error()}
	}

	defer func() {
		if r := recover(); r != nil {
			d.log.Errorf("❌ invocation %s: handler panic: %v", id, r)
			res = &tools.Result{
				Status:  tools.StatusError,
				Message: fmt.Sprintf("internal error: %v", r),
			}
			err = nil
		}
	}()

	result, herr := e.def.Handler(ctx, raw)
	if herr != nil {
		d.log.Errorf("❌ invocation %s: tool=%s error: %v", id, inv.ToolName, herr)
		return &tools.Result{
			Status:  tools.StatusError,
			Message: herr.Error(),
		}, nil
	}

	d.log.Infof("⬅️ invocation %s: tool=%s status=%s", id, inv.ToolName, result.Status)
	return result, nil
}

// validate checks required and unrecognized keys by name, then runs the
// compiled schema for the remaining constraints (types, minLength).
func (e entry) validate(args map[string]string) error {
	for _, k := range e.required {
		if _, ok := args[k]; !ok {
			return &InvalidArgumentError{Tool: e.def.Name, Key: k, Reason: "required argument is missing"}
		}
	}
	for k := range args {
		if !e.allowed[k] {
			return &InvalidArgumentError{Tool: e.def.Name, Key: k, Reason: "unrecognized argument"}
		}
	}

	doc := make(map[string]any, len(args))
	for k, v := range args {
		doc[k] = v
	}
	if err := e.schema.Validate(doc); err != nil {
		return &InvalidArgumentError{Tool: e.def.Name, Reason: err.Error()}
	}
	return nil
}

// ResultFromError maps a pre-handler rejection to the structured result wire
// layers hand back to callers.
func ResultFromError(err error) *tools.Result {
	return &tools.Result{Status: tools.StatusError, Message: err.Error()}
}

// logPreviews emits a short content preview for arguments that look like
// file paths. Best effort; unreadable paths are skipped.
func (d *Dispatcher) logPreviews(args map[string]string) {
	if d.preview == nil {
		return
	}
	for k, v := range args {
		if !strings.Contains(k, "path") && !strings.Contains(k, "file") {
			continue
		}
		if p := d.preview(v); p != "" {
			d.log.Debugf("👀 %s preview: %s", k, p)
		}
	}
}

func formatArgs(args map[string]string) string {
	b, err := json.Marshal(args)
	if err != nil {
		return fmt.Sprintf("%v", args)
	}
	return string(b)
}
