package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vertti/childproc/pkg/capture"
	"github.com/vertti/childproc/pkg/envlock"
	"github.com/vertti/childproc/pkg/manifest"
	"github.com/vertti/childproc/pkg/output"
	"github.com/vertti/childproc/pkg/pipe"
	"github.com/vertti/childproc/pkg/proc"
	"github.com/vertti/childproc/pkg/report"
)

var (
	runFile   string
	runDigest string
	runQuiet  bool
)

var runCmd = &cobra.Command{
	Use:   "run [flags] [command [args...]]",
	Short: "Run a child process and stream its output",
	Long: `Run starts a child process with piped stdio and polls its output and error
pipes until it exits, then prints a summary.

Without a command, the command comes from a ` + manifest.FileName + ` file found by
searching up from the current directory. The child's stdin is closed.`,
	Args: cobra.ArbitraryArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runFile, "file", "", "path to "+manifest.FileName+" (default: search up from current directory)")
	runCmd.Flags().StringVar(&runDigest, "digest", "", "digest for the summary: blake3, sha256 or sha512 (default blake3)")
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "don't echo child output")
	runCmd.Flags().SetInterspersed(false)
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	child, overlay, digest, err := resolveCommand(args)
	if err != nil {
		return err
	}
	algo, err := capture.ParseAlgorithm(digest)
	if err != nil {
		return err
	}

	r := report.New("run: " + strings.Join(child.Args, " "))
	h, err := proc.StartEnv(child, overlay)
	if err != nil {
		output.PrintReport(cmd.ErrOrStderr(), r.Fail(fmt.Sprintf("start: %v", err), err))
		return ErrFailed
	}
	defer func() {
		if err := h.Close(); err != nil {
			logrus.WithError(err).WithField("id", h.ID).Warn("close child handle")
		}
	}()
	if err := h.CloseStdin(); err != nil {
		logrus.WithError(err).Debug("close child stdin")
	}

	outCap, errCap := capture.New("stdout", algo), capture.New("stderr", algo)
	sinks := []sink{
		{stream: h.Stdout(), capture: outCap},
		{stream: h.Stderr(), capture: errCap},
	}
	if !runQuiet {
		sinks[0].w, sinks[1].w = cmd.OutOrStdout(), cmd.ErrOrStderr()
	}

	code, err := pump(cmd.Context(), h, cfg.PollInterval, sinks)
	if err != nil {
		_ = h.Kill()
		output.PrintReport(cmd.ErrOrStderr(), r.Fail(fmt.Sprintf("drain: %v", err), err))
		return ErrFailed
	}

	r.AddDetailf("pid: %d", h.PID()).AddDetailf("exit code: %d", code)
	for _, c := range []*capture.Capture{outCap, errCap} {
		for _, d := range c.Details() {
			r.AddDetail(d)
		}
	}
	if code != 0 {
		r.Status = report.StatusFail
	}
	output.PrintReport(cmd.ErrOrStderr(), *r)

	if code != 0 {
		return &ExitCodeError{Code: code}
	}
	return nil
}

// resolveCommand builds the child from the arguments, or from a manifest
// when no command is given or --file is set. Arguments given alongside a
// manifest are appended to its own.
func resolveCommand(args []string) (*exec.Cmd, []string, string, error) {
	if len(args) > 0 && runFile == "" {
		return proc.Command(args[0], args[1:]...), nil, runDigest, nil
	}

	var (
		wd  string
		err error
	)
	envlock.Do(func() { wd, err = os.Getwd() })
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to get working directory: %w", err)
	}
	path, err := manifest.FindFile(wd, runFile)
	if err != nil {
		return nil, nil, "", err
	}
	m, err := manifest.ParseFile(path)
	if err != nil {
		return nil, nil, "", err
	}

	digest := runDigest
	if digest == "" {
		digest = m.Digest
	}
	return m.Cmd(args...), m.EnvOverlay(), digest, nil
}

type sink struct {
	stream  *pipe.Stream
	w       io.Writer // nil when output is not echoed
	capture *capture.Capture
}

func (s sink) emit(res pipe.Result) {
	if res.Empty() {
		return
	}
	s.capture.Add(res)
	if s.w != nil {
		_, _ = s.w.Write(res.Bytes())
	}
}

// pump drains every sink once per interval until the child has exited and
// its pipes are empty or closed. Cancelling ctx kills the child; pump still
// waits for it to be reaped.
func pump(ctx context.Context, h *proc.Handle, interval time.Duration, sinks []sink) (int, error) {
	if interval <= 0 {
		interval = proc.DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	killed := false
	for {
		// Read the flag before draining: once done is seen, everything the
		// child wrote is already buffered.
		done, code := h.Done()

		got, closed := false, true
		for _, s := range sinks {
			res, err := s.stream.Drain()
			if err != nil {
				return -1, err
			}
			got = got || !res.Empty()
			closed = closed && s.stream.Closed()
			s.emit(res)
		}

		if done && (!got || closed) {
			for _, s := range sinks {
				s.emit(s.stream.Flush())
			}
			return code, nil
		}

		select {
		case <-ctx.Done():
			if !killed {
				killed = true
				logrus.WithField("id", h.ID).Debug("run: interrupted, killing child")
				if err := h.Kill(); err != nil {
					logrus.WithError(err).Warn("kill child")
				}
			}
			<-ticker.C
		case <-ticker.C:
		}
	}
}
