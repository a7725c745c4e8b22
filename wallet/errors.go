package wallet

import (
	"errors"
	"fmt"
	"strings"

	"go.ztx.dev/core/types"
)

// Build errors returned by SpendBuilder and TxBuilder.
var (
	ErrZeroGift              = errors.New("Cannot create a transaction with zero gift")
	ErrInsufficientFunds     = errors.New("Insufficient funds to pay fee and gift")
	ErrAccountingMismatch    = errors.New("Assets in must equal gift + fee + refund")
	ErrInvalidVersion        = errors.New("Invalid RawTx version")
	ErrInvalidSpendCondition = errors.New("Spend condition is invalid (mismatch?)")
	ErrUnbalancedSpends      = errors.New("Some spends are not balanced (forgot to compute refunds?)")
	ErrMissingSpendCondition = errors.New("Spend condition is missing for this input note")
)

// A NoteNotFoundError is returned when a transaction references a note the
// caller did not supply.
type NoteNotFoundError struct {
	Name types.Name
}

// Error implements error.
func (e *NoteNotFoundError) Error() string {
	return fmt.Sprintf("Unable to find note [%v %v]", e.Name.First, e.Name.Last)
}

// An InvalidFeeError is returned when the fee carried by a transaction falls
// short of what its size requires.
type InvalidFeeError struct {
	Needed types.Nicks
	Got    types.Nicks
}

// Error implements error.
func (e *InvalidFeeError) Error() string {
	return fmt.Sprintf("Insufficient fee for transaction (needed: %v, got: %v)", e.Needed, e.Got)
}

// A MissingUnlocksError is returned by Validate when one or more spends are
// not fully authorized.
type MissingUnlocksError struct {
	Unlocks []MissingUnlock
}

// Error implements error.
func (e *MissingUnlocksError) Error() string {
	var sb strings.Builder
	sb.WriteString("The note is note fully unlocked. The following unlocks are missing:")
	for _, u := range e.Unlocks {
		fmt.Fprintf(&sb, "%v", u)
	}
	return sb.String()
}
