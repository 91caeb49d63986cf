package chainz

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// nilDereferenceText is the message the Go runtime uses for a nil
// pointer dereference panic. Matching on it is how the distinguished
// failure is told apart from every other panic.
const nilDereferenceText = "invalid memory address or nil pointer dereference"

// recoverDereference converts a runtime nil-dereference panic raised by
// a wrapped callable into an ErrDereference failure attributed to the
// named stage. Any other panic is re-raised: a programming error
// unrelated to absence must not be converted into an error value.
func recoverDereference(err *error, name Name, input any, start time.Time) {
	r := recover()
	if r == nil {
		return
	}
	re, ok := r.(runtime.Error)
	if !ok || !strings.Contains(re.Error(), nilDereferenceText) {
		panic(r)
	}
	*err = &Error{
		Path:      []Name{name},
		InputData: input,
		Err:       fmt.Errorf("%w: %v", ErrDereference, re),
		Timestamp: time.Now(),
		Duration:  time.Since(start),
	}
}
