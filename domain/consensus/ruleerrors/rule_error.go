package ruleerrors

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spreadcoin/spreadd/domain/consensus/model/externalapi"
)

// These constants are used to identify a specific RuleError.
var (
	// ErrUnexpectedDifficulty indicates specified bits do not align with
	// the expected value either because it doesn't match the calculated
	// value based on difficulty retargeting rules.
	ErrUnexpectedDifficulty = newRuleError("ErrUnexpectedDifficulty")

	// ErrTargetTooHigh indicates specified bits do not align with
	// the expected value either because it is above the valid
	// range.
	ErrTargetTooHigh = newRuleError("ErrTargetTooHigh")

	// ErrNegativeTarget indicates specified bits decode to a negative,
	// zero or overflowing target.
	ErrNegativeTarget = newRuleError("ErrNegativeTarget")

	// ErrHighHash indicates the block's proof-of-work hash is above its
	// target.
	ErrHighHash = newRuleError("ErrHighHash")

	// ErrUnexpectedHeight indicates the block height is not one more than
	// the height of its parent.
	ErrUnexpectedHeight = newRuleError("ErrUnexpectedHeight")

	// ErrTimeTooOld indicates the block is timestamped before its parent.
	ErrTimeTooOld = newRuleError("ErrTimeTooOld")

	// ErrUnexpectedAlgorithmSelector indicates the selector record is set
	// at a height where the selector fork is not active yet, or missing
	// where it is.
	ErrUnexpectedAlgorithmSelector = newRuleError("ErrUnexpectedAlgorithmSelector")

	// ErrBadMinerSignature indicates the miner signature can't be
	// recovered into a public key.
	ErrBadMinerSignature = newRuleError("ErrBadMinerSignature")

	// ErrBadMerkleRoot indicates the calculated merkle root does not match
	// the expected value.
	ErrBadMerkleRoot = newRuleError("ErrBadMerkleRoot")

	// ErrBadWholeBlockHash indicates the calculated proof-of-knowledge
	// commitment does not match the one in the header.
	ErrBadWholeBlockHash = newRuleError("ErrBadWholeBlockHash")

	// ErrNoTransactions indicates the block does not have a least one
	// transaction.
	ErrNoTransactions = newRuleError("ErrNoTransactions")
)

// RuleError identifies a rule violation. It is used to indicate that
// processing of a block failed due to one of the many validation
// rules. The caller can use type assertions to determine if a failure was
// specifically due to a rule violation.
type RuleError struct {
	message string
	inner   error
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	if e.inner != nil {
		return e.message + ": " + e.inner.Error()
	}
	return e.message
}

// Unwrap satisfies the errors.Unwrap interface
func (e RuleError) Unwrap() error {
	return e.inner
}

// Cause satisfies the github.com/pkg/errors.Cause interface
func (e RuleError) Cause() error {
	return e.inner
}

func newRuleError(message string) RuleError {
	return RuleError{message: message, inner: nil}
}

// ErrMissingParent indicates a header points to an unknown previous block.
type ErrMissingParent struct {
	MissingParentHash *externalapi.DomainHash
}

func (e ErrMissingParent) Error() string {
	return fmt.Sprintf("missing the parent block %s", e.MissingParentHash)
}

// NewErrMissingParent creates a new ErrMissingParent error wrapped in a RuleError
func NewErrMissingParent(missingParentHash *externalapi.DomainHash) error {
	return errors.WithStack(RuleError{
		message: "ErrMissingParent",
		inner:   ErrMissingParent{missingParentHash},
	})
}
