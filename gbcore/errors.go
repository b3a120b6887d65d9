package gbcore

import "fmt"

// PersistenceError wraps a failure from the host-supplied Persister,
// distinguishing save-side and load-side failures without the caller
// needing to inspect the wrapped error's type.
type PersistenceError struct {
	Op  string // "save_ram", "load_ram", "save_rtc", "load_rtc"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("gbcore: persistence %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
