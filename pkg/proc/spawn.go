package proc

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/vertti/childproc/pkg/envlock"
	"github.com/vertti/childproc/pkg/errkind"
)

// ErrStdioSet is returned by Start when the command already has stdio wired.
var ErrStdioSet = errors.New("command stdio must be unset; Start creates the pipes")

// Start launches cmd with piped stdin, stdout and stderr and begins reaping
// it in the background. The environment lock is held while the child's
// environment is assembled and the OS process is created, so a concurrent
// Setenv can never be observed half-applied by the child.
func Start(cmd *exec.Cmd) (*Handle, error) {
	return start(envlock.Default, cmd, nil)
}

// StartEnv is Start with KEY=value pairs appended to the child's
// environment. The overlay is applied under the same lock, on top of
// cmd.Env or the inherited environment, and later entries win.
func StartEnv(cmd *exec.Cmd, overlay []string) (*Handle, error) {
	return start(envlock.Default, cmd, overlay)
}

func start(lock *envlock.Lock, cmd *exec.Cmd, overlay []string) (*Handle, error) {
	if cmd.Stdin != nil || cmd.Stdout != nil || cmd.Stderr != nil {
		return nil, ErrStdioSet
	}

	var (
		h   *Handle
		err error
	)
	lock.Do(func() {
		h, err = startLocked(cmd, overlay)
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"id":   h.ID,
		"pid":  h.PID(),
		"path": cmd.Path,
	}).Debug("proc: process started")

	go h.Reap()
	return h, nil
}

// Command is exec.Command without the PATH lookup. Start resolves a bare
// name under the environment lock instead.
func Command(name string, arg ...string) *exec.Cmd {
	return &exec.Cmd{Path: name, Args: append([]string{name}, arg...)}
}

// resolvePath looks a bare program name up in PATH. Paths, and commands
// exec.Command already resolved or failed to, are left alone.
func resolvePath(cmd *exec.Cmd) (string, error) {
	if cmd.Err != nil || cmd.Path == "" || filepath.Base(cmd.Path) != cmd.Path {
		return cmd.Path, nil
	}
	lp, err := exec.LookPath(cmd.Path)
	if err != nil {
		return "", fmt.Errorf("start %s: %w", cmd.Path, err)
	}
	return lp, nil
}

// startLocked runs with the environment lock held. It must not call back
// into envlock. cmd is only modified once the process has started.
func startLocked(cmd *exec.Cmd, overlay []string) (*Handle, error) {
	path, err := resolvePath(cmd)
	if err != nil {
		return nil, err
	}
	env := cmd.Env
	if env == nil {
		env = os.Environ()
	}
	env = append(slices.Clip(env), overlay...)

	var parent, child []*os.File
	fail := func(err error) (*Handle, error) {
		closeFiles(parent...)
		closeFiles(child...)
		return nil, err
	}

	inR, inW, err := os.Pipe()
	if err != nil {
		return fail(errkind.Wrap("stdin pipe", err))
	}
	parent, child = append(parent, inW), append(child, inR)

	outR, outW, err := os.Pipe()
	if err != nil {
		return fail(errkind.Wrap("stdout pipe", err))
	}
	parent, child = append(parent, outR), append(child, outW)

	errR, errW, err := os.Pipe()
	if err != nil {
		return fail(errkind.Wrap("stderr pipe", err))
	}
	parent, child = append(parent, errR), append(child, errW)

	prevPath, prevEnv := cmd.Path, cmd.Env
	cmd.Path, cmd.Env = path, env
	cmd.Stdin, cmd.Stdout, cmd.Stderr = inR, outW, errW
	if err := cmd.Start(); err != nil {
		cmd.Path, cmd.Env = prevPath, prevEnv
		cmd.Stdin, cmd.Stdout, cmd.Stderr = nil, nil, nil
		return fail(fmt.Errorf("start %s: %w", path, err))
	}
	// The child holds its own copies now; keeping ours open would stop the
	// read ends from ever seeing the writer close.
	closeFiles(child...)

	native, err := nativeFromProcess(cmd.Process)
	if err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		closeFiles(parent...)
		return nil, err
	}

	h, err := New(native, outR, errR, inW)
	if err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		_ = native.release()
		closeFiles(parent...)
		return nil, err
	}
	h.cmd = cmd
	return h, nil
}

func closeFiles(files ...*os.File) {
	for _, f := range files {
		_ = f.Close()
	}
}
