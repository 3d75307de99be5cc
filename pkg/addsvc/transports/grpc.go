package transports

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kit/kit/circuitbreaker"
	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/ratelimit"
	"github.com/go-kit/kit/tracing/opentracing"
	"github.com/go-kit/kit/tracing/zipkin"
	grpctransport "github.com/go-kit/kit/transport/grpc"
	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	"github.com/grpc-ecosystem/grpc-opentracing/go/otgrpc"
	stdopentracing "github.com/opentracing/opentracing-go"
	stdzipkin "github.com/openzipkin/zipkin-go"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthgrpc "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	pb "github.com/cage1016/adder/pb/addsvc"
	"github.com/cage1016/adder/pkg/addsvc/endpoints"
	"github.com/cage1016/adder/pkg/addsvc/service"
)

type grpcServer struct {
	add grpctransport.Handler `json:""`
}

func (s *grpcServer) Add(ctx context.Context, req *pb.AddRequest) (rep *pb.AddReply, err error) {
	_, rp, err := s.add.ServeGRPC(ctx, req)
	if err != nil {
		return nil, grpcEncodeError(err)
	}
	rep = rp.(*pb.AddReply)
	return rep, nil
}

// MakeGRPCServer makes a set of endpoints available as a gRPC server.
func MakeGRPCServer(endpoints endpoints.Endpoints, otTracer stdopentracing.Tracer, zipkinTracer *stdzipkin.Tracer, logger log.Logger) (req pb.AddsvcServer) {
	// A global Zipkin tracing service, used with the Go kit gRPC Interceptor,
	// names spans after the gRPC method path.
	zipkinServer := zipkin.GRPCServerTrace(zipkinTracer)

	options := []grpctransport.ServerOption{
		grpctransport.ServerErrorLogger(logger),
		zipkinServer,
	}

	return &grpcServer{
		add: grpctransport.NewServer(
			endpoints.AddEndpoint,
			decodeGRPCAddRequest,
			encodeGRPCAddResponse,
			append(options, grpctransport.ServerBefore(opentracing.GRPCToContext(otTracer, "Add", logger)))...,
		),
	}
}

// NewGRPCServer returns a gRPC server exposing addsvc and the standard health
// service behind the recovery, tracing and API-key interceptors. The health
// server reports SERVING for the empty service name and for serviceName.
func NewGRPCServer(addsvc pb.AddsvcServer, serviceName string, cfg Config, otTracer stdopentracing.Tracer, logger log.Logger) (*grpc.Server, *health.Server) {
	hs := health.NewServer()
	hs.SetServingStatus(serviceName, healthgrpc.HealthCheckResponse_SERVING)

	server := grpc.NewServer(grpc_middleware.WithUnaryServerChain(
		grpc_recovery.UnaryServerInterceptor(),
		grpctransport.Interceptor,
		otgrpc.OpenTracingServerInterceptor(otTracer),
		UnaryAPIKeyInterceptor(cfg, logger),
	))
	pb.RegisterAddsvcServer(server, addsvc)
	healthgrpc.RegisterHealthServer(server, hs)
	reflection.Register(server)
	return server, hs
}

// decodeGRPCAddRequest is a transport/grpc.DecodeRequestFunc that converts a
// gRPC request to a user-domain request. Primarily useful in a server.
func decodeGRPCAddRequest(_ context.Context, grpcReq interface{}) (interface{}, error) {
	req := grpcReq.(*pb.AddRequest)
	return endpoints.AddRequest{Num1: operandFromPB(req.GetNum1()), Num2: operandFromPB(req.GetNum2())}, nil
}

// encodeGRPCAddResponse is a transport/grpc.EncodeResponseFunc that converts a
// user-domain response to a gRPC reply. Primarily useful in a server.
func encodeGRPCAddResponse(_ context.Context, grpcReply interface{}) (res interface{}, err error) {
	reply := grpcReply.(endpoints.AddResponse)
	return &pb.AddReply{Result: float64(reply.Result)}, grpcEncodeError(reply.Err)
}

// NewGRPCClient returns an AddService backed by a gRPC server at the other end
// of the conn. The caller is responsible for constructing the conn, and
// eventually closing the underlying transport. We bake-in certain middlewares,
// implementing the client library pattern.
func NewGRPCClient(conn *grpc.ClientConn, apiKey string, otTracer stdopentracing.Tracer, zipkinTracer *stdzipkin.Tracer, logger log.Logger) endpoints.Endpoints {
	// We construct a single ratelimiter middleware, to limit the total outgoing
	// QPS from this client to all methods on the remote instance.
	limiter := ratelimit.NewErroringLimiter(rate.NewLimiter(rate.Limit(100), 100))

	// global client middlewares
	options := []grpctransport.ClientOption{
		zipkin.GRPCClientTrace(zipkinTracer),
	}
	if apiKey != "" {
		options = append(options, grpctransport.ClientBefore(grpctransport.SetRequestHeader(APIKeyHeader, apiKey)))
	}

	var addEndpoint endpoint.Endpoint
	{
		addEndpoint = grpctransport.NewClient(
			conn,
			"pb.Addsvc",
			"Add",
			encodeGRPCAddRequest,
			decodeGRPCAddResponse,
			pb.AddReply{},
			append(options, grpctransport.ClientBefore(opentracing.ContextToGRPC(otTracer, logger)))...,
		).Endpoint()
		addEndpoint = invalidArgumentAsResponse(addEndpoint)
		addEndpoint = opentracing.TraceClient(otTracer, "Add")(addEndpoint)
		addEndpoint = limiter(addEndpoint)
		addEndpoint = circuitbreaker.Gobreaker(gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "Add",
			Timeout: 30 * time.Second,
		}))(addEndpoint)
	}

	return endpoints.Endpoints{
		AddEndpoint:    addEndpoint,
		StatusEndpoint: makeHealthStatusEndpoint(healthgrpc.NewHealthClient(conn)),
	}
}

// invalidArgumentAsResponse moves InvalidArgument errors into the response,
// so that bad input is not counted against the circuit breaker.
func invalidArgumentAsResponse(next endpoint.Endpoint) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		resp, err := next(ctx, request)
		if st, ok := status.FromError(err); ok && err != nil && st.Code() == codes.InvalidArgument {
			return endpoints.AddResponse{Err: businessError(st.Message())}, nil
		}
		return resp, err
	}
}

// makeHealthStatusEndpoint answers status requests with the remote gRPC
// health check.
func makeHealthStatusEndpoint(client healthgrpc.HealthClient) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		resp, err := client.Check(ctx, &healthgrpc.HealthCheckRequest{})
		if err != nil {
			return nil, err
		}
		if resp.GetStatus() != healthgrpc.HealthCheckResponse_SERVING {
			return nil, status.Error(codes.Unavailable, fmt.Sprintf("addsvc is %s", resp.GetStatus()))
		}
		return endpoints.StatusResponse{Status: endpoints.StatusLive, Timestamp: endpoints.Timestamp(time.Now())}, nil
	}
}

// encodeGRPCAddRequest is a transport/grpc.EncodeRequestFunc that converts a
// user-domain Add request to a gRPC Add request. Primarily useful in a client.
func encodeGRPCAddRequest(_ context.Context, request interface{}) (interface{}, error) {
	req := request.(endpoints.AddRequest)
	return &pb.AddRequest{Num1: operandToPB(req.Num1), Num2: operandToPB(req.Num2)}, nil
}

// decodeGRPCAddResponse is a transport/grpc.DecodeResponseFunc that converts a
// gRPC Add reply to a user-domain Add response. Primarily useful in a client.
func decodeGRPCAddResponse(_ context.Context, grpcReply interface{}) (interface{}, error) {
	reply := grpcReply.(*pb.AddReply)
	return endpoints.AddResponse{Result: endpoints.Result(reply.Result)}, nil
}

func operandFromPB(o *pb.Operand) service.Operand {
	switch o.GetKind() {
	case pb.Operand_NULL:
		return service.Null()
	case pb.Operand_STRING:
		return service.String(o.GetText())
	case pb.Operand_NUMBER:
		return service.Number(o.GetNumber())
	}
	return service.Absent()
}

func operandToPB(o service.Operand) *pb.Operand {
	switch o.Kind() {
	case service.KindNull:
		return &pb.Operand{Kind: pb.Operand_NULL}
	case service.KindString:
		return &pb.Operand{Kind: pb.Operand_STRING, Text: o.Text()}
	case service.KindNumber:
		return &pb.Operand{Kind: pb.Operand_NUMBER, Number: o.Float()}
	}
	return nil
}
