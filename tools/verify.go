package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/printforge/cadbridge/internal/resolve"
	"github.com/printforge/cadbridge/internal/telemetry"
)

// VerifyToolName is the stable wire name; VerifyToolAlias is the legacy name
// kept as a deprecated alias for old hosts.
const (
	VerifyToolName  = "verify_cad_query"
	VerifyToolAlias = "cad_verify"
)

type VerifyInput struct {
	FilePath string `json:"file_path" jsonschema:"minLength=1" jsonschema_description:"Path to the CAD-Query Python file to verify."`
	Criteria string `json:"verification_criteria" jsonschema:"minLength=1" jsonschema_description:"Description of what aspects to verify (e.g. \"coffee mug with handle, 10cm height, 8cm diameter\")."`
}

var VerifyInputSchema = GenerateSchema[VerifyInput]()

// Verdict decides whether a script's source satisfies free-text criteria.
// The nil backend is the stub policy: every pre-checked file passes.
type Verdict interface {
	Judge(ctx context.Context, source, criteria string) (pass bool, analysis string, err error)
}

// NewVerifyTool builds the verification tool. Verification runs the
// existence/extension pre-checks through res and then delegates to verdict;
// with a nil verdict the tool unconditionally passes, a placeholder pending
// real geometry analysis that keeps the input/output contract stable.
func NewVerifyTool(res *resolve.Resolver, log *telemetry.Logger, verdict Verdict) ToolDefinition {
	return ToolDefinition{
		Name: VerifyToolName,
		Description: "Verify a CAD-Query generated model against specified criteria. " +
			"Call this before presenting any CAD model output to users.",
		InputSchema: VerifyInputSchema,
		Handler: func(ctx context.Context, input json.RawMessage) (*Result, error) {
			var in VerifyInput
			if err := json.Unmarshal(input, &in); err != nil {
				return nil, err
			}

			log.Infof("🔍 tool called: %s", VerifyToolName)
			log.Infof("📁 file path: %s", in.FilePath)
			log.Infof("📋 verification criteria: %s", in.Criteria)

			r := res.Resolve(in.FilePath)
			if !r.Exists {
				log.Errorf("❌ file not found: %s", in.FilePath)
				return &Result{
					Status:  StatusFail,
					Message: fmt.Sprintf("File not found: %s", in.FilePath),
					Payload: map[string]string{
						"file_path":  in.FilePath,
						"criteria":   in.Criteria,
						"error_code": resolve.CodeFileNotFound,
					},
				}, nil
			}
			if !r.ExtensionOK {
				log.Errorf("❌ invalid file type: %s", in.FilePath)
				return &Result{
					Status:  StatusFail,
					Message: fmt.Sprintf("File must be a %s file: %s", res.Ext(), in.FilePath),
					Payload: map[string]string{
						"file_path":  in.FilePath,
						"criteria":   in.Criteria,
						"error_code": resolve.CodeUnsupportedFileType,
					},
				}, nil
			}

			if p, err := resolve.ContentPreview(r.AbsPath, 0); err == nil {
				log.Infof("📄 content: %d bytes, %d lines, preview: %s",
					p.Stats.Bytes, p.Stats.Lines, p.Snippet)
			}

			details := "Dummy verification - always passes"
			status := StatusPass
			message := "CAD model verification completed successfully"
			if verdict != nil {
				source, err := os.ReadFile(r.AbsPath)
				if err != nil {
					return nil, err
				}
				pass, analysis, err := verdict.Judge(ctx, string(source), in.Criteria)
				if err != nil {
					return nil, err
				}
				details = analysis
				if !pass {
					status = StatusFail
					message = "CAD model verification failed"
				}
			}

			if id, ok := telemetry.InvocationIDFromContext(ctx); ok {
				log.Infof("✅ verification result: %s (invocation %s)", status, id)
			} else {
				log.Infof("✅ verification result: %s", status)
			}
			return &Result{
				Status:  status,
				Message: message,
				Payload: map[string]string{
					"file_path": in.FilePath,
					"criteria":  in.Criteria,
					"details":   details,
				},
			}, nil
		},
	}
}
