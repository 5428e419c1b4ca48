package services

import (
	"fmt"
	"net/http"
)

// ErrorKind classifies a ServiceError independently of its HTTP status.
type ErrorKind string

const (
	KindValidation      ErrorKind = "validation"
	KindNotFound        ErrorKind = "not_found"
	KindConflict        ErrorKind = "conflict"
	KindTransient       ErrorKind = "transient"
	KindPartialCheckout ErrorKind = "checkout_incomplete"
)

// ServiceError is a typed error with an HTTP status code. OrderID is set for
// partial checkouts; PreviousStatus for failed status transitions.
type ServiceError struct {
	Kind           ErrorKind
	StatusCode     int
	Message        string
	OrderID        string
	PreviousStatus string
	Err            error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error { return e.Err }

func validationError(msg string, err error) *ServiceError {
	return &ServiceError{Kind: KindValidation, StatusCode: http.StatusBadRequest, Message: msg, Err: err}
}

func notFoundError(msg string) *ServiceError {
	return &ServiceError{Kind: KindNotFound, StatusCode: http.StatusNotFound, Message: msg}
}

func conflictError(msg string) *ServiceError {
	return &ServiceError{Kind: KindConflict, StatusCode: http.StatusConflict, Message: msg}
}

// transientError reports a storage failure; the caller may retry.
func transientError(msg string, err error) *ServiceError {
	return &ServiceError{Kind: KindTransient, StatusCode: http.StatusBadGateway, Message: msg, Err: err}
}

func partialCheckoutError(orderID string, err error) *ServiceError {
	return &ServiceError{
		Kind:       KindPartialCheckout,
		StatusCode: http.StatusInternalServerError,
		Message:    "Order was created but its items could not be saved. Please contact the bakery with your order reference.",
		OrderID:    orderID,
		Err:        err,
	}
}
