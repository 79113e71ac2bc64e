// Package process runs short-lived child processes for the integration layer.
//
// A Process wraps an exec.Cmd with an ID, state tracking, exit code and a
// done channel. Run starts a command with its stdin fed from a reader and
// waits for it under a context deadline:
//
//	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
//	defer cancel()
//
//	proc, err := process.Run(ctx, process.Spec{
//	    Name:  "dotoolc",
//	    Path:  "dotoolc",
//	    Stdin: strings.NewReader("key ctrl+s\n"),
//	})
//	if errors.Is(err, process.ErrDeadline) {
//	    // proc was killed
//	}
//
// When the deadline expires the child is killed and Run returns ErrDeadline.
// A non-zero exit is reported as ErrNonZeroExit with the captured stderr
// available from Process.Stderr.
//
// # Thread Safety
//
// Process is safe for concurrent use.
package process
