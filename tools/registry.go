package tools

import (
	"github.com/printforge/cadbridge/internal/provider"
	"github.com/printforge/cadbridge/internal/resolve"
	"github.com/printforge/cadbridge/internal/telemetry"
)

// Deps carries the collaborators the tool handlers close over.
type Deps struct {
	Resolver  *resolve.Resolver
	Logger    *telemetry.Logger
	Generator provider.TextGenerator
	Verdict   Verdict
}

// Registry returns all tool definitions wired for the server. The legacy
// cad_verify name stays registered as a deprecated alias of verify_cad_query
// so old hosts keep working.
func Registry(deps Deps) []ToolDefinition {
	verify := NewVerifyTool(deps.Resolver, deps.Logger, deps.Verdict)

	alias := verify
	alias.Name = VerifyToolAlias
	alias.Deprecated = true

	return []ToolDefinition{
		verify,
		alias,
		NewGenerateTool(deps.Generator, deps.Logger),
	}
}
