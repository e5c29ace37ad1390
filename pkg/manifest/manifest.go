package manifest

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"os/exec"
	"path/filepath"
	"slices"

	"github.com/tidwall/gjson"

	"github.com/vertti/childproc/pkg/envlock"
	"github.com/vertti/childproc/pkg/proc"
)

// FileName is the manifest looked up by FindFile.
const FileName = ".childproc.json"

// ErrNotFound is returned when no manifest exists between the start
// directory and the project root.
var ErrNotFound = errors.New(FileName + " file not found")

// Manifest describes a child process to run.
type Manifest struct {
	Path    string            // file the manifest was read from, if any
	Command string            // program name or path
	Args    []string          // arguments before any given on the command line
	Env     map[string]string // overlaid on the inherited environment
	Dir     string            // working directory, resolved against Path
	Digest  string            // digest algorithm for output summaries
}

// FindFile returns explicitPath if set, otherwise the nearest FileName in
// the project directories above startDir (see projectDirs).
func FindFile(startDir, explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("manifest not found: %w", err)
		}
		return explicitPath, nil
	}

	// Both read the environment (HOME, PWD).
	var (
		homeDir, currentDir string
		homeErr, absErr     error
	)
	envlock.Do(func() {
		homeDir, homeErr = os.UserHomeDir()
		currentDir, absErr = filepath.Abs(startDir)
	})
	if homeErr != nil {
		return "", fmt.Errorf("failed to get home directory: %w", homeErr)
	}
	if absErr != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", absErr)
	}

	for dir := range projectDirs(currentDir, homeDir) {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", ErrNotFound
}

// projectDirs yields dir and its parents up to the project root: the first
// of home, a directory holding .git, or the filesystem root. The root itself
// is yielded.
func projectDirs(dir, home string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for {
			if !yield(dir) || dir == home || exists(filepath.Join(dir, ".git")) {
				return
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				return
			}
			dir = parent
		}
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ParseFile reads and parses the manifest at path. A relative "dir" is
// resolved against the manifest's directory.
func ParseFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // reading the manifest is the point
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Path = path
	if m.Dir != "" && !filepath.IsAbs(m.Dir) {
		m.Dir = filepath.Join(filepath.Dir(path), m.Dir)
	}
	return m, nil
}

// Parse reads a manifest document:
//
//	{"command": "sh", "args": ["-c", "echo hi"], "env": {"K": "v"}, "dir": "sub", "digest": "sha256"}
//
// Only "command" is required.
func Parse(data []byte) (*Manifest, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid JSON")
	}

	command := gjson.GetBytes(data, "command")
	if command.Type != gjson.String || command.String() == "" {
		return nil, errors.New(`"command" must be a non-empty string`)
	}
	m := &Manifest{Command: command.String()}

	if args := gjson.GetBytes(data, "args"); args.Exists() {
		if !args.IsArray() {
			return nil, errors.New(`"args" must be an array of strings`)
		}
		for i, a := range args.Array() {
			if a.Type != gjson.String {
				return nil, fmt.Errorf(`"args[%d]" must be a string`, i)
			}
			m.Args = append(m.Args, a.String())
		}
	}

	if env := gjson.GetBytes(data, "env"); env.Exists() {
		if !env.IsObject() {
			return nil, errors.New(`"env" must be an object`)
		}
		m.Env = map[string]string{}
		var bad error
		env.ForEach(func(key, value gjson.Result) bool {
			if key.String() == "" || value.Type == gjson.JSON {
				bad = fmt.Errorf(`"env.%s" must be a scalar with a non-empty name`, key.String())
				return false
			}
			m.Env[key.String()] = value.String()
			return true
		})
		if bad != nil {
			return nil, bad
		}
	}

	m.Dir = gjson.GetBytes(data, "dir").String()
	m.Digest = gjson.GetBytes(data, "digest").String()
	return m, nil
}

// Cmd builds the command with extra arguments appended. Env is left nil and
// the program is not looked up in PATH yet; proc.StartEnv does both under
// the environment lock. See EnvOverlay.
func (m *Manifest) Cmd(extra ...string) *exec.Cmd {
	cmd := proc.Command(m.Command, append(slices.Clone(m.Args), extra...)...)
	cmd.Dir = m.Dir
	return cmd
}

// EnvOverlay returns the manifest environment as sorted KEY=value pairs.
func (m *Manifest) EnvOverlay() []string {
	keys := make([]string, 0, len(m.Env))
	for k := range m.Env {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	overlay := make([]string, 0, len(keys))
	for _, k := range keys {
		overlay = append(overlay, k+"="+m.Env[k])
	}
	return overlay
}
