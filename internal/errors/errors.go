// internal/errors/errors.go
package errors

import (
	stderrors "errors"
)

type ErrorType string

const (
	// ErrorTypeUser covers bad usage and unmet preconditions. Always recoverable.
	ErrorTypeUser ErrorType = "USER"
	// ErrorTypeIntegrity means stored history no longer matches what the graph claims.
	ErrorTypeIntegrity ErrorType = "INTEGRITY"
)

// Code identifies a failure independent of the wording used to report it.
type Code string

const (
	CodeFileNotFound          Code = "FILE_NOT_FOUND"
	CodeEmptyMessage          Code = "EMPTY_MESSAGE"
	CodeNothingToCommit       Code = "NOTHING_TO_COMMIT"
	CodeNothingToRemove       Code = "NOTHING_TO_REMOVE"
	CodeUnknownBranch         Code = "UNKNOWN_BRANCH"
	CodeAlreadyExists         Code = "ALREADY_EXISTS"
	CodeCurrentBranch         Code = "CURRENT_BRANCH"
	CodeAlreadyCurrent        Code = "ALREADY_CURRENT"
	CodeUnknownCommit         Code = "UNKNOWN_COMMIT"
	CodeFileNotInCommit       Code = "FILE_NOT_IN_COMMIT"
	CodeUntrackedFileConflict Code = "UNTRACKED_FILE_CONFLICT"
	CodeUncommittedChanges    Code = "UNCOMMITTED_CHANGES"
	CodeSelfMerge             Code = "SELF_MERGE"
	CodeNoMatchingCommit      Code = "NO_MATCHING_COMMIT"
	CodeNotInitialized        Code = "NOT_INITIALIZED"
	CodeAlreadyInitialized    Code = "ALREADY_INITIALIZED"
	CodeIncorrectOperands     Code = "INCORRECT_OPERANDS"
	CodeNoCommand             Code = "NO_COMMAND"
	CodeUnknownCommand        Code = "UNKNOWN_COMMAND"

	CodeCorrupt Code = "CORRUPT"
	CodeMissing Code = "MISSING"
)

type Error struct {
	Type    ErrorType `json:"type"`
	Code    Code      `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil && e.Type == ErrorTypeIntegrity {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target carries the same code, so two wordings of the
// same failure compare equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func User(code Code, message string) *Error {
	return &Error{
		Type:    ErrorTypeUser,
		Code:    code,
		Message: message,
	}
}

func Integrity(code Code, message string, err error) *Error {
	return &Error{
		Type:    ErrorTypeIntegrity,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsUser reports whether err (or anything it wraps) is a user error.
func IsUser(err error) bool {
	var e *Error
	if !stderrors.As(err, &e) {
		return false
	}
	return e.Type == ErrorTypeUser
}

// IsIntegrity reports whether err (or anything it wraps) is an integrity error.
func IsIntegrity(err error) bool {
	var e *Error
	if !stderrors.As(err, &e) {
		return false
	}
	return e.Type == ErrorTypeIntegrity
}

// Message returns the one-line message for user errors and err.Error() otherwise.
func Message(err error) string {
	var e *Error
	if stderrors.As(err, &e) && e.Type == ErrorTypeUser {
		return e.Message
	}
	return err.Error()
}

func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target any) bool { return stderrors.As(err, target) }

func New(text string) error { return stderrors.New(text) }

var (
	ErrFileNotFound    = User(CodeFileNotFound, "File does not exist.")
	ErrEmptyMessage    = User(CodeEmptyMessage, "Please enter a commit message.")
	ErrNothingToCommit = User(CodeNothingToCommit, "No changes added to the commit.")
	ErrNothingToRemove = User(CodeNothingToRemove, "No reason to remove the file.")

	ErrUnknownBranch  = User(CodeUnknownBranch, "A branch with that name does not exist.")
	ErrNoSuchBranch   = User(CodeUnknownBranch, "No such branch exists.")
	ErrAlreadyExists  = User(CodeAlreadyExists, "A branch with that name already exists.")
	ErrCurrentBranch  = User(CodeCurrentBranch, "Cannot remove the current branch.")
	ErrAlreadyCurrent = User(CodeAlreadyCurrent, "No need to checkout the current branch.")

	ErrUnknownCommit   = User(CodeUnknownCommit, "No commit with that id exists.")
	ErrFileNotInCommit = User(CodeFileNotInCommit, "File does not exist in that commit.")
	ErrUntrackedFile   = User(CodeUntrackedFileConflict,
		"There is an untracked file in the way; delete it, or add and commit it first.")

	ErrUncommittedChanges = User(CodeUncommittedChanges, "You have uncommitted changes.")
	ErrSelfMerge          = User(CodeSelfMerge, "Cannot merge a branch with itself.")
	ErrNoMatchingCommit   = User(CodeNoMatchingCommit, "Found no commit with that message.")

	ErrNotInitialized     = User(CodeNotInitialized, "Not in an initialized twig directory.")
	ErrAlreadyInitialized = User(CodeAlreadyInitialized,
		"A twig version-control system already exists in the current directory.")
	ErrIncorrectOperands = User(CodeIncorrectOperands, "Incorrect operands.")
	ErrNoCommand         = User(CodeNoCommand, "Please enter a command.")
	ErrUnknownCommand    = User(CodeUnknownCommand, "No command with that name exists.")
)
