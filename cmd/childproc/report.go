package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vertti/childproc/pkg/output"
	"github.com/vertti/childproc/pkg/report"
)

// ErrFailed is returned when a command reported a failure.
var ErrFailed = errors.New("command failed")

// ExitCodeError carries a child's non-zero exit code out to main.
type ExitCodeError struct {
	Code int
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("child exited with code %d", e.Code)
}

// finish prints the report and returns ErrFailed if it failed.
// The returned error causes Cobra to exit with code 1.
func finish(cmd *cobra.Command, r report.Report) error {
	output.PrintReport(cmd.OutOrStdout(), r)
	if !r.OK() {
		return ErrFailed
	}
	return nil
}
