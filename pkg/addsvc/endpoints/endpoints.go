package endpoints

import (
	"context"
	"time"

	"github.com/go-kit/kit/circuitbreaker"
	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/ratelimit"
	"github.com/go-kit/kit/tracing/opentracing"
	"github.com/go-kit/kit/tracing/zipkin"
	stdopentracing "github.com/opentracing/opentracing-go"
	stdzipkin "github.com/openzipkin/zipkin-go"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/cage1016/adder/pkg/addsvc/service"
)

// Endpoints collects all of the endpoints that compose the addsvc service. It's
// meant to be used as a helper struct, to collect all of the endpoints into a
// single parameter.
type Endpoints struct {
	AddEndpoint    endpoint.Endpoint `json:""`
	StatusEndpoint endpoint.Endpoint `json:""`
}

// New return a new instance of the endpoint that wraps the provided service.
// Add is limited to qps requests per second with a burst of the same size;
// qps <= 0 disables the limit.
func New(svc service.AddsvcService, logger log.Logger, duration metrics.Histogram, otTracer stdopentracing.Tracer, zipkinTracer *stdzipkin.Tracer, qps int) (ep Endpoints) {
	var addEndpoint endpoint.Endpoint
	{
		method := "add"
		addEndpoint = MakeAddEndpoint(svc)
		if qps > 0 {
			addEndpoint = ratelimit.NewErroringLimiter(rate.NewLimiter(rate.Limit(qps), qps))(addEndpoint)
		}
		addEndpoint = circuitbreaker.Gobreaker(gobreaker.NewCircuitBreaker(gobreaker.Settings{}))(addEndpoint)
		addEndpoint = opentracing.TraceServer(otTracer, method)(addEndpoint)
		addEndpoint = zipkin.TraceEndpoint(zipkinTracer, method)(addEndpoint)
		addEndpoint = LoggingMiddleware(log.With(logger, "method", method))(addEndpoint)
		addEndpoint = InstrumentingMiddleware(duration.With("method", method))(addEndpoint)
		ep.AddEndpoint = addEndpoint
	}

	var statusEndpoint endpoint.Endpoint
	{
		method := "status"
		statusEndpoint = MakeStatusEndpoint(time.Now)
		statusEndpoint = InstrumentingMiddleware(duration.With("method", method))(statusEndpoint)
		ep.StatusEndpoint = statusEndpoint
	}

	return ep
}

// MakeAddEndpoint returns an endpoint that invokes Add on the service.
// Primarily useful in a server.
//
// Service errors are carried in the response so that middlewares such as the
// circuit breaker only see transport and infrastructure failures.
func MakeAddEndpoint(svc service.AddsvcService) (ep endpoint.Endpoint) {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req := request.(AddRequest)
		if err := req.validate(); err != nil {
			return AddResponse{Err: err}, nil
		}
		rs, err := svc.Add(ctx, req.Num1, req.Num2)
		return AddResponse{Result: Result(rs), Err: err}, nil
	}
}

// Add implements the service interface, so Endpoints may be used as a service.
// This is primarily useful in the context of a client library.
func (e Endpoints) Add(ctx context.Context, num1 service.Operand, num2 service.Operand) (rs float64, err error) {
	resp, err := e.AddEndpoint(ctx, AddRequest{Num1: num1, Num2: num2})
	if err != nil {
		return
	}
	response := resp.(AddResponse)
	return float64(response.Result), response.Err
}

// MakeStatusEndpoint returns a liveness endpoint stamped with now.
func MakeStatusEndpoint(now func() time.Time) (ep endpoint.Endpoint) {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		return StatusResponse{Status: StatusLive, Timestamp: Timestamp(now())}, nil
	}
}

// Status reports the liveness of the remote instance.
func (e Endpoints) Status(ctx context.Context) (status string, err error) {
	resp, err := e.StatusEndpoint(ctx, StatusRequest{})
	if err != nil {
		return
	}
	return resp.(StatusResponse).Status, nil
}
