package main

import (
	"errors"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vertti/childproc/pkg/errkind"
	"github.com/vertti/childproc/pkg/platform"
	"github.com/vertti/childproc/pkg/report"
)

var errnoList bool

var errnoCmd = &cobra.Command{
	Use:   "errno <code>...",
	Short: "Show the portable error kind for native error codes",
	Long: `Errno maps native error codes of the current platform to portable kinds.
Codes may be decimal or 0x-prefixed hex. Unknown codes map to "` + errkind.Default.String() + `".`,
	RunE: runErrno,
}

func init() {
	errnoCmd.Flags().BoolVar(&errnoList, "list", false, "list every portable kind")
	rootCmd.AddCommand(errnoCmd)
}

func runErrno(cmd *cobra.Command, args []string) error {
	if errnoList {
		r := report.New("kinds")
		addPlatform(r)
		for _, k := range errkind.Kinds() {
			r.AddDetailf("%d: %s", int(k), k)
		}
		return finish(cmd, *r)
	}
	if len(args) == 0 {
		return errors.New("requires at least 1 arg(s), or --list")
	}

	var failed bool
	for _, arg := range args {
		r := report.New("errno: " + arg)
		n, err := strconv.ParseUint(arg, 0, 32)
		if err != nil {
			r.Fail("not a native error code", err)
			failed = true
		} else {
			code := syscall.Errno(n)
			r.AddDetailf("kind: %s", errkind.Normalize(code)).
				AddDetailf("message: %s", code.Error())
			addPlatform(r)
		}
		if err := finish(cmd, *r); err != nil {
			failed = true
		}
	}
	if failed {
		return ErrFailed
	}
	return nil
}

// addPlatform names the target whose native code table was used.
func addPlatform(r *report.Report) {
	r.AddDetailf("platform: %s (%s table)", platform.Name(), platform.Family())
}
