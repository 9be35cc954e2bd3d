package service

import (
	"errors"
	"fmt"
	"strings"

	"printshop-orders/pkg/validator"
)

// Kind classifies errors for the transport layer. None of them is retried.
type Kind string

const (
	KindValidation    Kind = "ValidationError"
	KindNotFound      Kind = "NotFoundError"
	KindNotAuthorized Kind = "NotAuthorizedError"
	KindConflict      Kind = "ConflictError"
	KindInternal      Kind = "InternalError"
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Sentinels are wrapped with fmt.Errorf("%w: ...") to add detail; match them
// with errors.Is.
var (
	ErrInvalidRequest       = newError(KindValidation, "INVALID_REQUEST", "invalid request")
	ErrInvalidQuantity      = newError(KindValidation, "INVALID_QUANTITY", "quantity must be greater than zero with at most 3 decimals")
	ErrBelowMinimumQuantity = newError(KindValidation, "BELOW_MINIMUM_QUANTITY", "quantity is below the product minimum")
	ErrVariantRequired      = newError(KindValidation, "VARIANT_REQUIRED", "product requires a size variant")

	ErrProductUnavailable = newError(KindNotFound, "PRODUCT_UNAVAILABLE", "product is not available in this branch")
	ErrBranchNotFound     = newError(KindNotFound, "BRANCH_NOT_FOUND", "branch not found")
	ErrCustomerNotFound   = newError(KindNotFound, "CUSTOMER_NOT_FOUND", "customer not found")
	ErrParamNotFound      = newError(KindNotFound, "PARAM_NOT_FOUND", "parameter not found")
	ErrOrderNotFound      = newError(KindNotFound, "ORDER_NOT_FOUND", "order not found")
	ErrItemNotFound       = newError(KindNotFound, "ITEM_NOT_FOUND", "order item not found")

	ErrNotAuthorized = newError(KindNotAuthorized, "NOT_AUTHORIZED", "not authorized for this branch")

	ErrOrderDelivered = newError(KindConflict, "ORDER_DELIVERED", "order was already delivered")
)

// KindOf returns the kind of err, or KindInternal for storage and other
// unclassified failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// CodeOf returns the machine readable code of err, if any.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func validationError(data interface{}) error {
	errs := validator.ValidateStruct(data)
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.String()
	}
	return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(msgs, "; "))
}
