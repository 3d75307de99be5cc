package transport

import (
	"context"
	"io"
	"regexp"
	"strings"
	"sync"

	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/go-kit/kit/sd"
	"github.com/go-kit/kit/sd/lb"
	kitgrpc "github.com/go-kit/kit/transport/grpc"
	"github.com/mwitkow/grpc-proxy/proxy"
	stdzipkin "github.com/openzipkin/zipkin-go"
	zipkingrpc "github.com/openzipkin/zipkin-go/middleware/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

const grpcRouterReg = `([a-zA-Z]+)/`

var grpcRouterRe = regexp.MustCompile(grpcRouterReg)

// Director routes /pb.<Service>/<Method> calls to the backend registered
// under the lower-cased service name. Fixed targets are dialed once and
// reused; discovered backends are balanced round robin over the passing
// instances.
type Director struct {
	targets      map[string]string
	balancers    map[string]lb.Balancer
	endpointers  []*sd.DefaultEndpointer
	zipkinTracer *stdzipkin.Tracer
	logger       log.Logger

	mu    sync.Mutex
	conns map[string]*grpc.ClientConn
}

func NewDirector(routes map[string]Backend, zipkinTracer *stdzipkin.Tracer, logger log.Logger) *Director {
	d := &Director{
		targets:      map[string]string{},
		balancers:    map[string]lb.Balancer{},
		zipkinTracer: zipkinTracer,
		logger:       logger,
		conns:        map[string]*grpc.ClientConn{},
	}
	for name, b := range routes {
		switch {
		case b.Instancer != nil:
			e := sd.NewEndpointer(b.Instancer, d.factory, log.With(logger, "backend", name))
			d.endpointers = append(d.endpointers, e)
			d.balancers[name] = lb.NewRoundRobin(e)
		case b.Target != "":
			d.targets[name] = b.Target
		}
	}
	return d
}

// serviceName extracts "addsvc" from "/pb.Addsvc/Add".
func serviceName(fullMethodName string) string {
	x := grpcRouterRe.FindStringSubmatch(fullMethodName)
	if x == nil {
		return ""
	}
	return strings.ToLower(x[1])
}

// Direct implements proxy.StreamDirector.
func (d *Director) Direct(ctx context.Context, fullMethodName string) (context.Context, *grpc.ClientConn, error) {
	name := serviceName(fullMethodName)

	// Make sure we never forward internal services.
	conn, err := d.backend(ctx, name)
	if err != nil {
		return nil, nil, err
	}

	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, nil, status.Error(codes.Unimplemented, "Unknown method")
	}
	// Copy the inbound metadata explicitly.
	outCtx := metadata.NewOutgoingContext(ctx, md.Copy())
	return outCtx, conn, nil
}

func (d *Director) backend(ctx context.Context, name string) (*grpc.ClientConn, error) {
	if b, ok := d.balancers[name]; ok {
		e, err := b.Endpoint()
		if err != nil {
			level.Warn(d.logger).Log("GRPC", "proxy", "backend", name, "err", err)
			return nil, status.Error(codes.Unavailable, err.Error())
		}
		conn, err := e(ctx, nil)
		if err != nil {
			return nil, err
		}
		return conn.(*grpc.ClientConn), nil
	}
	if target, ok := d.targets[name]; ok {
		return d.conn(target, target)
	}
	return nil, status.Error(codes.Unimplemented, "Unknown method")
}

// factory is the sd.Factory of discovered instances: the endpoint hands out
// the instance connection and the closer drops it.
func (d *Director) factory(instance string) (endpoint.Endpoint, io.Closer, error) {
	key := "sd/" + instance
	conn, err := d.conn(key, instance)
	if err != nil {
		return nil, nil, err
	}
	e := func(context.Context, interface{}) (interface{}, error) { return conn, nil }
	return e, closerFunc(func() error { return d.release(key) }), nil
}

// conn dials target once and caches the connection under key.
func (d *Director) conn(key, target string) (*grpc.ClientConn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if conn, ok := d.conns[key]; ok {
		return conn, nil
	}
	conn, err := grpc.Dial(
		target,
		grpc.WithInsecure(),
		grpc.WithStatsHandler(zipkingrpc.NewClientHandler(d.zipkinTracer)),
		grpc.WithDefaultCallOptions(grpc.CallCustomCodec(proxy.Codec()), grpc.FailFast(false)),
	)
	if err != nil {
		level.Error(d.logger).Log("GRPC", "proxy", "target", target, "err", err)
		return nil, err
	}
	d.conns[key] = conn
	return conn, nil
}

func (d *Director) release(key string) error {
	d.mu.Lock()
	conn, ok := d.conns[key]
	delete(d.conns, key)
	d.mu.Unlock()
	if !ok {
		return nil
	}
	return conn.Close()
}

// Close stops watching instancers and releases every backend connection.
func (d *Director) Close() error {
	for _, e := range d.endpointers {
		e.Close()
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, conn := range d.conns {
		conn.Close()
		delete(d.conns, key)
	}
	return nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// NewGRPCProxy returns a gRPC server that forwards every call it does not
// implement itself through d.
func NewGRPCProxy(d *Director, zipkinTracer *stdzipkin.Tracer) *grpc.Server {
	server := grpc.NewServer(
		grpc.CustomCodec(proxy.Codec()),
		grpc.UnknownServiceHandler(proxy.TransparentHandler(d.Direct)),
		grpc.UnaryInterceptor(kitgrpc.Interceptor),
		grpc.StatsHandler(zipkingrpc.NewServerHandler(zipkinTracer)),
	)
	reflection.Register(server)
	return server
}
