// Package tools defines tool contracts and implementations.
//
// Includes:
//   - ToolDefinition: name, description, JSON input schema, handler.
//   - GenerateSchema[T](): derive JSON Schema from Go structs.
//   - CAD tools: verify_cad_query (with the deprecated cad_verify alias)
//     and generate_cad_query.
//   - Invariants: every invocation yields a structured Result; payload keys
//     are stable per tool; handlers are stateless and terminal per call.
package tools
