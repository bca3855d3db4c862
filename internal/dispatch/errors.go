package dispatch

import "fmt"

// UnknownToolError reports an invocation naming a tool that is not
// registered. No handler side effect occurs.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %q", e.Name)
}

// InvalidArgumentError reports arguments that do not match the tool's
// declared schema. Key names the offending argument when known.
type InvalidArgumentError struct {
	Tool   string
	Key    string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s: invalid argument %q: %s", e.Tool, e.Key, e.Reason)
	}
	return fmt.Sprintf("%s: invalid arguments: %s", e.Tool, e.Reason)
}
