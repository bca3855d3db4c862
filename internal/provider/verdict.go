package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// verdictPrompt instructs the model to lead with a bare PASS/FAIL token so
// the answer can be mapped onto a verification verdict without parsing prose.
const verdictPrompt = `You are reviewing a CAD-Query Python script against acceptance criteria.

Criteria: %s

Script:
%s

Check whether the script plausibly produces a model meeting the criteria
(shapes, dimensions, features). Reply with a single line containing only
PASS or FAIL, followed by your analysis on subsequent lines.`

// ModelVerdict judges a script against free-text criteria by asking a text
// model, mapping its leading PASS/FAIL token onto a verdict.
type ModelVerdict struct {
	gen TextGenerator
}

// NewModelVerdict wraps gen as a verification backend.
func NewModelVerdict(gen TextGenerator) *ModelVerdict {
	return &ModelVerdict{gen: gen}
}

// Judge returns the verdict and the model's analysis. An unrecognized leading
// token is treated as a failed external call rather than a verdict.
func (v *ModelVerdict) Judge(ctx context.Context, source, criteria string) (bool, string, error) {
	if v.gen == nil {
		return false, "", &ExternalServiceError{
			Provider: "verdict",
			Err:      errors.New("no text generator configured"),
		}
	}
	out, err := v.gen.GenerateText(ctx, fmt.Sprintf(verdictPrompt, criteria, source))
	if err != nil {
		return false, "", err
	}

	head, analysis, _ := strings.Cut(strings.TrimSpace(out), "\n")
	switch strings.TrimSpace(strings.ToUpper(head)) {
	case "PASS":
		return true, strings.TrimSpace(analysis), nil
	case "FAIL":
		return false, strings.TrimSpace(analysis), nil
	}
	return false, "", &ExternalServiceError{
		Provider: "verdict",
		Err:      fmt.Errorf("model did not return a PASS/FAIL verdict: %.40q", out),
	}
}
