package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrProductUnavailable = errors.New("product is not available")
	ErrEmptyOrder         = errors.New("order has no lines")
	ErrIllegalTransition  = errors.New("illegal order status transition")
)

type SelectionReason string

const (
	SelectionTooFew  SelectionReason = "TOO_FEW_SELECTIONS"
	SelectionTooMany SelectionReason = "TOO_MANY_SELECTIONS"
	SelectionInvalid SelectionReason = "INVALID_SELECTION"
)

// SelectionError names the offending group and the violated rule. One
// SelectionError aborts the whole add-line request; nothing is persisted.
type SelectionError struct {
	GroupID   int64
	GroupName string
	Reason    SelectionReason
	Min       int
	Max       int
}

func (e *SelectionError) Error() string {
	switch e.Reason {
	case SelectionTooFew:
		return fmt.Sprintf("group %q requires at least %d selection(s)", e.GroupName, e.Min)
	case SelectionTooMany:
		return fmt.Sprintf("group %q allows at most %d selection(s)", e.GroupName, e.Max)
	default:
		return fmt.Sprintf("invalid selection for group %q", e.GroupName)
	}
}

// CustomerInfoError lists the required contact/delivery fields that are
// missing from a placement request.
type CustomerInfoError struct {
	Missing []string
}

func (e *CustomerInfoError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}
