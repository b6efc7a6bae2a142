package nbi

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/signalsfoundry/linkbudget/core"
	"github.com/signalsfoundry/linkbudget/units"
)

var (
	// ErrNotFound is a package-level sentinel used when a named scenario cannot be located.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRequest is a package-level sentinel used for malformed request payloads.
	ErrInvalidRequest = errors.New("invalid request")
)

// ToStatusError maps engine and catalogue errors onto gRPC status codes.
func ToStatusError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return status.Error(codes.NotFound, err.Error())

	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, core.ErrValidation),
		errors.Is(err, core.ErrUnitMismatch),
		errors.Is(err, units.ErrUnknownUnit),
		errors.Is(err, units.ErrMalformedQuantity),
		errors.Is(err, units.ErrIncompatibleUnits):
		return status.Error(codes.InvalidArgument, err.Error())

	case errors.Is(err, core.ErrInvalidGeometry):
		return status.Error(codes.FailedPrecondition, err.Error())

	default:
		return status.Error(codes.Internal, err.Error())
	}
}
