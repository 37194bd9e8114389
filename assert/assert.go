// Package assert holds the fatal checks used for content and programmer errors
// that can't be recovered from, like a shader that fails to compile at load time.
//
// A failed check logs the message and panics with it. Left unrecovered the panic
// terminates the process with the message and a stack trace.
package assert

import (
	"fmt"
	"strings"

	"github.com/gen-engine/glshader/logging"
)

const failPrefix = "Assert failed: "

func T(check bool, msg string, args ...any) {

	if check {
		return
	}

	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	msg = failPrefix + strings.TrimRight(msg, "\n")

	logging.ErrLog.Output(2, msg)
	panic(msg)
}
