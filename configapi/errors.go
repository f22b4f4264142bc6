// SPDX-FileCopyrightText: 2025 NEMO Testbed
//
// SPDX-License-Identifier: Apache-2.0

package configapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorKind classifies an Admission API failure. The kinds stay distinct
// internally even where they share a wire status: the testbed core maps
// every business-rule rejection, including a failed RAN capability check,
// onto 404.
type ErrorKind int

const (
	ErrorBadRequest ErrorKind = iota
	ErrorNotFound
	ErrorConflict
	ErrorRanCapabilityRejected
	ErrorInvalidTimeWindow
	ErrorUpstreamUnavailable
)

type ServiceError struct {
	Kind   ErrorKind
	Reason string
}

func (e *ServiceError) Error() string {
	return e.Reason
}

func (e *ServiceError) HTTPStatus() int {
	switch e.Kind {
	case ErrorBadRequest, ErrorInvalidTimeWindow:
		return http.StatusBadRequest
	case ErrorNotFound, ErrorConflict, ErrorRanCapabilityRejected:
		return http.StatusNotFound
	case ErrorUpstreamUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func badRequest(reason string) *ServiceError {
	return &ServiceError{Kind: ErrorBadRequest, Reason: reason}
}

func notFound(reason string) *ServiceError {
	return &ServiceError{Kind: ErrorNotFound, Reason: reason}
}

func conflict(reason string) *ServiceError {
	return &ServiceError{Kind: ErrorConflict, Reason: reason}
}

func ranRejected(reason string) *ServiceError {
	return &ServiceError{Kind: ErrorRanCapabilityRejected, Reason: reason}
}

func upstreamUnavailable(reason string) *ServiceError {
	return &ServiceError{Kind: ErrorUpstreamUnavailable, Reason: reason}
}

func invalidTimeWindow(reason string) *ServiceError {
	return &ServiceError{Kind: ErrorInvalidTimeWindow, Reason: reason}
}

// writeServiceError emits the {"detail": reason} failure body the testbed
// clients expect.
func writeServiceError(c *gin.Context, err *ServiceError) {
	c.JSON(err.HTTPStatus(), gin.H{"detail": err.Reason})
}
