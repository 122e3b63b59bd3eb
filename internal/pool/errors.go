package pool

import (
	"fmt"

	"github.com/eburns009/ephemeris-service/internal/apierr"
)

func unexpectedKindError(k interface{}) error {
	return fmt.Errorf("%w: unexpected worker message kind %v", apierr.ErrWorkerCrashed, k)
}

// errorFromCode turns a worker-reported taxonomy code back into a Go error
// the caller can apierr.Map. The message is preserved for logging; code
// dispatch happens in apierr.
func errorFromCode(code, message string) error {
	cause, ok := apierr.LookupSentinel(code)
	if !ok {
		return fmt.Errorf("worker error %s: %s", code, message)
	}
	return fmt.Errorf("%w: %s", cause, message)
}
