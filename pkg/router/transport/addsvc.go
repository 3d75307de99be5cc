package transport

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/sd"
	"github.com/go-kit/kit/sd/lb"
	"github.com/grpc-ecosystem/grpc-opentracing/go/otgrpc"
	stdopentracing "github.com/opentracing/opentracing-go"
	stdzipkin "github.com/openzipkin/zipkin-go"
	"google.golang.org/grpc"

	"github.com/cage1016/adder/pkg/addsvc/endpoints"
	"github.com/cage1016/adder/pkg/addsvc/transports"
)

// Backend locates addsvc instances: a fixed gRPC target, or an instancer when
// discovery is enabled.
type Backend struct {
	Target    string
	Instancer sd.Instancer
}

// Options tune how the router talks to addsvc and what it exposes.
type Options struct {
	// APIKey is forwarded to addsvc as x-api-key metadata.
	APIKey string

	// RetryMax and RetryTimeout bound the attempts made against discovered
	// instances.
	RetryMax     int
	RetryTimeout time.Duration

	// HTTP configures the router's own HTTP surface for addsvc.
	HTTP transports.Config
}

// MakeHandler returns the router HTTP handler with addsvc mounted under
// /addsvc/.
func MakeHandler(ctx context.Context, addsvc Backend, opts Options, tracer stdopentracing.Tracer, zipkinTracer *stdzipkin.Tracer, logger log.Logger) http.Handler {
	r := NewHandlerBuilder()
	r.AddHandler("addsvc", MakeAddsvcHandler(ctx, addsvc, opts, tracer, zipkinTracer, log.With(logger, "backend", "addsvc")))
	return r
}

func MakeAddsvcHandler(ctx context.Context, backend Backend, opts Options, tracer stdopentracing.Tracer, zipkinTracer *stdzipkin.Tracer, logger log.Logger) http.Handler {
	var eps = endpoints.Endpoints{}
	if backend.Instancer != nil {
		eps.AddEndpoint = balanced(backend.Instancer, addSvcFactory(ctx, addEndpoint, opts.APIKey, tracer, zipkinTracer, logger), opts, logger)
		eps.StatusEndpoint = balanced(backend.Instancer, addSvcFactory(ctx, statusEndpoint, opts.APIKey, tracer, zipkinTracer, logger), opts, logger)
	} else {
		eps.AddEndpoint = fixed(backend.Target, addSvcFactory(ctx, addEndpoint, opts.APIKey, tracer, zipkinTracer, logger))
		eps.StatusEndpoint = fixed(backend.Target, addSvcFactory(ctx, statusEndpoint, opts.APIKey, tracer, zipkinTracer, logger))
	}

	return transports.NewHTTPHandler(eps, opts.HTTP, tracer, zipkinTracer, logger)
}

func addEndpoint(e endpoints.Endpoints) endpoint.Endpoint    { return e.AddEndpoint }
func statusEndpoint(e endpoints.Endpoints) endpoint.Endpoint { return e.StatusEndpoint }

// addSvcFactory dials an addsvc instance over gRPC and picks one of its
// client endpoints.
func addSvcFactory(
	ctx context.Context,
	pick func(endpoints.Endpoints) endpoint.Endpoint,
	apiKey string,
	tracer stdopentracing.Tracer,
	zipkinTracer *stdzipkin.Tracer,
	logger log.Logger) sd.Factory {

	return func(instance string) (endpoint.Endpoint, io.Closer, error) {
		conn, err := grpc.DialContext(ctx, instance,
			grpc.WithInsecure(),
			grpc.WithUnaryInterceptor(otgrpc.OpenTracingClientInterceptor(tracer)),
		)
		if err != nil {
			return nil, nil, err
		}
		return pick(transports.NewGRPCClient(conn, apiKey, tracer, zipkinTracer, logger)), conn, nil
	}
}

func fixed(target string, factory sd.Factory) endpoint.Endpoint {
	ep, _, err := factory(target)
	if err != nil {
		return func(ctx context.Context, request interface{}) (interface{}, error) {
			return nil, err
		}
	}
	return ep
}

func balanced(instancer sd.Instancer, factory sd.Factory, opts Options, logger log.Logger) endpoint.Endpoint {
	endpointer := sd.NewEndpointer(instancer, factory, logger)
	balancer := lb.NewRoundRobin(endpointer)
	return lb.Retry(opts.RetryMax, opts.RetryTimeout, balancer)
}
