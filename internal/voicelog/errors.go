package voicelog

import (
	"errors"
	"fmt"
)

// ErrSessionExists is returned by Tracker.Open when the user already has
// an open session. The router resolves it by force-closing the stale
// session and opening again.
var ErrSessionExists = errors.New("open voice session already exists")

// ErrNoOpenSession is returned by Tracker.Close when no open session is
// tracked for the user. Expected after a restart; not fatal.
var ErrNoOpenSession = errors.New("no open voice session")

// StorageError wraps a durable-write failure. Log appends swallow it
// after reporting; session writes retry before giving up.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
