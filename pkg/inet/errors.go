package inet

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Compare with errors.Is against a *NetError
// returned by any package function.
var (
	ErrInvalidPortRemoval   = errors.New("inet: invalid port removal")
	ErrSelfLoop             = errors.New("inet: self loop")
	ErrMissingHandle        = errors.New("inet: missing handle")
	ErrPreconditionViolated = errors.New("inet: precondition violated")
)

// NetError reports a structural misuse of the net API: the kind of
// violation, the offending handle(s), and a human-readable message.
// All NetErrors are unrecoverable by design — the operation is
// aborted without partial rollback.
type NetError struct {
	Kind    error
	Handles []uint64
	Msg     string
}

func (e *NetError) Error() string {
	return fmt.Sprintf("%v: %s (handles=%v)", e.Kind, e.Msg, e.Handles)
}

func (e *NetError) Unwrap() error {
	return e.Kind
}

func invalidPortRemoval(p PortID, msg string) *NetError {
	return &NetError{Kind: ErrInvalidPortRemoval, Handles: []uint64{uint64(p)}, Msg: msg}
}

func selfLoop(p PortID) *NetError {
	return &NetError{Kind: ErrSelfLoop, Handles: []uint64{uint64(p)}, Msg: "cannot connect a port to itself"}
}

func missingHandle(op string, handle uint64) *NetError {
	return &NetError{Kind: ErrMissingHandle, Handles: []uint64{handle}, Msg: op + ": identifier does not refer to a live entity"}
}

func preconditionViolated(c1, c2 CellID, msg string) *NetError {
	return &NetError{Kind: ErrPreconditionViolated, Handles: []uint64{uint64(c1), uint64(c2)}, Msg: msg}
}
