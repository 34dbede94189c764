package trash

import (
	"errors"
	"fmt"
)

// Kind classifies every error returned by a Store
type Kind int

const (
	// KindIO is an OS-level failure: permissions, cross-device, disk full
	KindIO Kind = iota

	// KindNotFound means the target path does not exist
	KindNotFound

	// KindTrashingTrashCan guards the trash root, its ancestors and its contents
	KindTrashingTrashCan

	// KindTrashingCwd guards the directory the process is standing in
	KindTrashingCwd

	// KindParse means a .trashinfo file is malformed
	KindParse

	// KindPath means a path could not be resolved
	KindPath
)

// Sentinels matched by errors.Is against any *Error of the same Kind
var (
	ErrIO               = errors.New("i/o error")
	ErrNotFound         = errors.New("file does not exist")
	ErrTrashingTrashCan = errors.New("invalid attempt to trash the trash can")
	ErrTrashingCwd      = errors.New("invalid attempt to trash the current directory")
	ErrParse            = errors.New("malformed trash info")
	ErrPath             = errors.New("invalid path")
)

func (k Kind) sentinel() error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindTrashingTrashCan:
		return ErrTrashingTrashCan
	case KindTrashingCwd:
		return ErrTrashingCwd
	case KindParse:
		return ErrParse
	case KindPath:
		return ErrPath
	default:
		return ErrIO
	}
}

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindTrashingTrashCan:
		return "trashing trash can"
	case KindTrashingCwd:
		return "trashing cwd"
	case KindParse:
		return "parse"
	case KindPath:
		return "path"
	default:
		return "io"
	}
}

// Error wraps an error with the kind and context of the store operation
type Error struct {
	Kind Kind   // Classification of the failure
	Op   string // Operation that failed (e.g. "trash", "restore", "erase", "list")
	Path string // Path the operation was acting on
	Err  error  // Underlying cause, may be nil
}

func (e *Error) Error() string {
	msg := e.Kind.sentinel().Error()
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Path == "" {
		return e.Op + ": " + msg
	}
	return fmt.Sprintf("cannot %s %s: %s", e.Op, e.Path, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrNotFound) and friends work on any *Error
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func newError(kind Kind, op, path string, err error) error {
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindIO
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindIO
}

// IsNotFound returns true if the error is ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsGuard returns true if the error is one of the safety guards, which are
// never worth retrying
func IsGuard(err error) bool {
	return errors.Is(err, ErrTrashingTrashCan) || errors.Is(err, ErrTrashingCwd)
}

// ParseError describes why a .trashinfo file was rejected
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return "parse trash info: " + e.Reason
	}
	return fmt.Sprintf("parse trash info: line %d: %s", e.Line, e.Reason)
}
