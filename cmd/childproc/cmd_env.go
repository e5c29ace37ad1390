package main

import (
	"slices"

	"github.com/spf13/cobra"

	"github.com/vertti/childproc/pkg/envlock"
	"github.com/vertti/childproc/pkg/report"
)

var (
	envHideValue bool
	envMaskValue bool
)

var envCmd = &cobra.Command{
	Use:   "env [variable...]",
	Short: "Show the environment a child would inherit",
	Long: `Env prints a snapshot of the process environment taken under the
environment lock, the same view Start gives a child. With names, only those
variables are shown and a missing one is a failure.`,
	RunE: runEnv,
}

func init() {
	envCmd.Flags().BoolVar(&envHideValue, "hide-value", false, "don't show values in output")
	envCmd.Flags().BoolVar(&envMaskValue, "mask-value", false, "show masked values (first/last 3 chars)")
	rootCmd.AddCommand(envCmd)
}

func runEnv(cmd *cobra.Command, args []string) error {
	if err := requireAtMostOne(
		flagSet{"--hide-value", envHideValue},
		flagSet{"--mask-value", envMaskValue},
	); err != nil {
		return err
	}

	snapshot := envlock.Snapshot()
	names := args
	if len(names) == 0 {
		for k := range snapshot {
			names = append(names, k)
		}
		slices.Sort(names)
	}
	return finish(cmd, describeEnv(envlock.MapGetter(snapshot), names))
}

// describeEnv reports each name's value from g; unset names fail the report.
func describeEnv(g envlock.Getter, names []string) report.Report {
	r := report.New("env")
	for _, name := range names {
		if value, ok := g.LookupEnv(name); ok {
			r.AddDetail(name + ": " + displayValue(value))
		} else {
			r.Failf("not set: %s", name)
		}
	}
	return *r
}

func displayValue(value string) string {
	switch {
	case envHideValue:
		return "[hidden]"
	case envMaskValue:
		return maskValue(value)
	default:
		return value
	}
}

func maskValue(value string) string {
	if len(value) <= 6 {
		return "•••"
	}
	return value[:3] + "•••" + value[len(value)-3:]
}
