package transports

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-kit/kit/ratelimit"
	"github.com/go-kit/kit/sd/lb"
	"github.com/sony/gobreaker"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cage1016/adder/pkg/addsvc/service"
)

var (
	// ErrMalformedRequest is returned when a request body cannot be decoded.
	ErrMalformedRequest = errors.New("malformed request")

	// ErrUnauthorized is returned when the API key is missing or wrong.
	ErrUnauthorized = errors.New("unauthorized")
)

func httpEncodeError(_ context.Context, err error, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	var lberr lb.RetryError
	if errors.As(err, &lberr) && lberr.Final != nil {
		err = lberr.Final
	}

	if st, ok := status.FromError(err); ok {
		w.WriteHeader(HTTPStatusFromCode(st.Code()))
		json.NewEncoder(w).Encode(errorWrapper{Error: st.Message()})
		return
	}
	w.WriteHeader(httpStatus(err))
	json.NewEncoder(w).Encode(errorWrapper{Error: err.Error()})
}

func httpStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrMissingInput), errors.Is(err, ErrMalformedRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ratelimit.ErrLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// HTTPStatusFromCode converts a gRPC error code into the corresponding HTTP
// response status.
func HTTPStatusFromCode(code codes.Code) int {
	switch code {
	case codes.OK:
		return http.StatusOK
	case codes.Canceled:
		return http.StatusRequestTimeout
	case codes.Unknown:
		return http.StatusInternalServerError
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists:
		return http.StatusConflict
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	case codes.FailedPrecondition:
		return http.StatusBadRequest
	case codes.Aborted:
		return http.StatusConflict
	case codes.OutOfRange:
		return http.StatusBadRequest
	case codes.Unimplemented:
		return http.StatusNotImplemented
	case codes.Internal:
		return http.StatusInternalServerError
	case codes.Unavailable:
		return http.StatusServiceUnavailable
	case codes.DataLoss:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

func grpcEncodeError(err error) error {
	if err == nil {
		return nil
	}

	if st, ok := status.FromError(err); ok {
		return status.Error(st.Code(), st.Message())
	}
	switch {
	case errors.Is(err, service.ErrMissingInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, ErrUnauthorized):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, ratelimit.ErrLimited):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, "internal server error")
	}
}
