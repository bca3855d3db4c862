// Package resolve maps raw file-path arguments onto the server's working
// directory and performs the existence/extension pre-checks that run before
// any tool does real work.
package resolve

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Stable machine-readable codes carried in FAIL payloads when a pre-check
// rejects a path, so callers need not parse the message text.
const (
	CodeFileNotFound        = "ERR_FILE_NOT_FOUND"
	CodeUnsupportedFileType = "ERR_UNSUPPORTED_FILE_TYPE"
)

// Resolved is the per-invocation view of a path argument. It is constructed
// fresh for each invocation and never persisted.
type Resolved struct {
	AbsPath     string
	Exists      bool
	ExtensionOK bool
}

// Resolver resolves relative paths against a fixed working directory and
// checks for the single recognized script extension. It never opens or reads
// the file; that is left to the tool that asked.
type Resolver struct {
	workdir string
	ext     string
}

// New builds a Resolver rooted at workdir. An empty workdir defaults to the
// process working directory; an empty ext defaults to ".py".
func New(workdir, ext string) (*Resolver, error) {
	if workdir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
		workdir = cwd
	}
	abs, err := filepath.Abs(workdir)
	if err != nil {
		return nil, fmt.Errorf("abs(workdir): %w", err)
	}
	// Resolve symlinks where possible so resolved paths are stable.
	// If EvalSymlinks fails (e.g., non-existent), keep the absolute path as-is.
	if r, err := filepath.EvalSymlinks(abs); err == nil {
		abs = r
	}
	if ext == "" {
		ext = ".py"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return &Resolver{workdir: abs, ext: ext}, nil
}

// Workdir returns the absolute directory relative paths resolve against.
func (r *Resolver) Workdir() string { return r.workdir }

// Ext returns the recognized script extension, including the leading dot.
func (r *Resolver) Ext() string { return r.ext }

// Resolve maps path onto the working directory and checks existence and
// extension. A directory at the resolved path counts as absent: the tools
// operate on script files only.
func (r *Resolver) Resolve(path string) Resolved {
	cleaned := filepath.Clean(path)
	abs := cleaned
	if !filepath.IsAbs(cleaned) {
		abs = filepath.Join(r.workdir, cleaned)
	}

	res := Resolved{
		AbsPath:     abs,
		ExtensionOK: strings.EqualFold(filepath.Ext(abs), r.ext),
	}
	if fi, err := os.Stat(abs); err == nil && !fi.IsDir() {
		res.Exists = true
	}
	return res
}
