package blocktree

import "fmt"

// ErrorCode identifies a block validation failure: a small enum with a
// String method, wrapped in a RuleError that carries a human description.
type ErrorCode int

// Validation failure codes.
const (
	// ErrMissingParent means the block's parent is not yet accepted locally.
	// The caller buffers the block as an orphan rather than dropping it.
	ErrMissingParent ErrorCode = iota
	// ErrDuplicateBlock means the block is already accepted.
	ErrDuplicateBlock
	// ErrInsufficientBalance means a transaction's sender balance on the
	// parent branch can't cover the transaction's amount.
	ErrInsufficientBalance
	// ErrDuplicateTransaction means a transaction already appears on the
	// parent branch.
	ErrDuplicateTransaction
)

func (e ErrorCode) String() string {
	switch e {
	case ErrMissingParent:
		return "ErrMissingParent"
	case ErrDuplicateBlock:
		return "ErrDuplicateBlock"
	case ErrInsufficientBalance:
		return "ErrInsufficientBalance"
	case ErrDuplicateTransaction:
		return "ErrDuplicateTransaction"
	default:
		return "ErrUnknown"
	}
}

// RuleError wraps an ErrorCode with a description. These are never fatal:
// the engine drops or buffers the offending block and moves on.
type RuleError struct {
	ErrorCode   ErrorCode
	Description string
}

func (e RuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.Description)
}

func ruleError(code ErrorCode, desc string) RuleError {
	return RuleError{ErrorCode: code, Description: desc}
}

// IsErrorCode reports whether err is a RuleError carrying code.
func IsErrorCode(err error, code ErrorCode) bool {
	re, ok := err.(RuleError)
	return ok && re.ErrorCode == code
}
