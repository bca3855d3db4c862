package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/printforge/cadbridge/internal/provider"
	"github.com/printforge/cadbridge/internal/telemetry"
)

const GenerateToolName = "generate_cad_query"

type GenerateInput struct {
	Description string `json:"description" jsonschema:"minLength=1" jsonschema_description:"Free-text description of the model to generate."`
	Parameters  string `json:"parameters,omitempty" jsonschema_description:"Optional dimensions or constraints (e.g. \"10x10x10 mm\")."`
}

var GenerateInputSchema = GenerateSchema[GenerateInput]()

// generatePrompt keeps the script convention in the model's view: a
// verifiable script must show the result as its final statement.
const generatePrompt = `Write a CAD-Query Python script for the following model.

Description: %s%s

Return only the Python code. The script must build the model with cadquery
and call show_object(result) as its final statement.`

// NewGenerateTool builds the generation tool. With a nil generator the tool
// reports NOT_IMPLEMENTED; otherwise it forwards a prompt to the external
// model and relays the raw output in generated_code, pass-through.
func NewGenerateTool(gen provider.TextGenerator, log *telemetry.Logger) ToolDefinition {
	return ToolDefinition{
		Name: GenerateToolName,
		Description: "Generate a CAD-Query Python script from a free-text description " +
			"and optional parameters.",
		InputSchema: GenerateInputSchema,
		Handler: func(ctx context.Context, input json.RawMessage) (*Result, error) {
			var in GenerateInput
			if err := json.Unmarshal(input, &in); err != nil {
				return nil, err
			}
			// Schema validation already rejects empty descriptions; this guard
			// keeps an empty prompt from ever reaching the external model.
			if strings.TrimSpace(in.Description) == "" {
				return nil, fmt.Errorf("description must not be empty")
			}

			log.Infof("🔍 tool called: %s", GenerateToolName)
			log.Infof("📝 description: %s", in.Description)
			if in.Parameters != "" {
				log.Infof("📐 parameters: %s", in.Parameters)
			}

			echo := map[string]string{
				"description": in.Description,
				"parameters":  in.Parameters,
			}

			if gen == nil {
				log.Infof("🚧 generation not implemented; echoing inputs")
				return &Result{
					Status:  StatusNotImplemented,
					Message: "CAD script generation is not implemented on this server",
					Payload: echo,
				}, nil
			}

			var params string
			if in.Parameters != "" {
				params = fmt.Sprintf("\nParameters: %s", in.Parameters)
			}
			code, err := gen.GenerateText(ctx, fmt.Sprintf(generatePrompt, in.Description, params))
			if err != nil {
				log.Errorf("❌ generation failed: %v", err)
				return &Result{
					Status:  StatusError,
					Message: err.Error(),
					Payload: echo,
				}, nil
			}

			log.Infof("✅ generated %d bytes of code", len(code))
			echo["generated_code"] = code
			return &Result{
				Status:  StatusSuccess,
				Message: "CAD script generated",
				Payload: echo,
			}, nil
		},
	}
}
