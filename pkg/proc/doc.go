// Package proc tracks the live state of spawned child processes.
//
// A Handle is shared between the goroutine that spawned the child, the
// goroutine that reaps it, and any number of goroutines that poll its pipes or
// its completion state. Completion flag and exit code sit behind the Handle's
// own mutex and are only reachable through MarkDone and Done, so a reader can
// never see a finished process with a stale exit code.
//
// # Lifecycle
//
// A Handle starts Running and moves to Done exactly once:
//
//	h, err := proc.Start(proc.Command("sh", "-c", "echo hi"))
//	if err != nil {
//	    return err
//	}
//	defer h.Close()
//
//	code, err := h.Wait(ctx, 20*time.Millisecond)
//
// Command builds an exec.Cmd whose PATH lookup Start performs under the
// environment lock; commands from exec.Command work as well.
//
// The stdout and stderr endpoints are independent of that state machine. They
// can be drained before, during and after the transition; a drain after the
// child exited reports no more data rather than an error.
package proc
