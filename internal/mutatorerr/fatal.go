package mutatorerr

import (
	"fmt"
	"os"
)

// Fatal prints a one-line diagnostic naming the offending file/key and
// aborts the process with a nonzero status. Used only during init: "any
// error during init is fatal and aborts the process with a diagnostic —
// the fuzzer session cannot proceed without a schema."
func Fatal(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "isa-mutator: fatal: %v\n", err)
	os.Exit(1)
}
