package transports

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/gorilla/mux"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

const (
	// APIKeyHeader is the HTTP header, and lower-cased the gRPC metadata key,
	// that carries the API key.
	APIKeyHeader = "X-API-Key"

	statusPath        = "/status"
	grpcHealthService = "/grpc.health.v1.Health/"
)

type gate struct {
	key    []byte
	exempt map[string]struct{}
}

func newGate(cfg Config) *gate {
	if cfg.APIKey == "" {
		return nil
	}
	g := &gate{key: []byte(cfg.APIKey), exempt: map[string]struct{}{statusPath: {}}}
	for _, p := range cfg.ExemptPaths {
		g.exempt[p] = struct{}{}
	}
	return g
}

func (g *gate) skip(path string) bool {
	if _, ok := g.exempt[path]; ok {
		return true
	}
	return strings.HasPrefix(path, grpcHealthService)
}

func (g *gate) allow(key string) bool {
	return subtle.ConstantTimeCompare(g.key, []byte(key)) == 1
}

// APIKeyMiddleware rejects requests whose X-API-Key header does not match
// cfg.APIKey. It is a no-op when no key is configured.
func APIKeyMiddleware(cfg Config, logger log.Logger) mux.MiddlewareFunc {
	g := newGate(cfg)
	return func(next http.Handler) http.Handler {
		if g == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if g.skip(r.URL.Path) || g.allow(r.Header.Get(APIKeyHeader)) {
				next.ServeHTTP(w, r)
				return
			}
			level.Warn(logger).Log("path", r.URL.Path, "remote_addr", r.RemoteAddr, "err", ErrUnauthorized)
			httpEncodeError(r.Context(), ErrUnauthorized, w)
		})
	}
}

// UnaryAPIKeyInterceptor is the gRPC counterpart of APIKeyMiddleware, reading
// the key from the x-api-key metadata.
func UnaryAPIKeyInterceptor(cfg Config, logger log.Logger) grpc.UnaryServerInterceptor {
	g := newGate(cfg)
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if g == nil || g.skip(info.FullMethod) {
			return handler(ctx, req)
		}
		var key string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if vs := md.Get(APIKeyHeader); len(vs) > 0 {
				key = vs[0]
			}
		}
		if !g.allow(key) {
			level.Warn(logger).Log("method", info.FullMethod, "err", ErrUnauthorized)
			return nil, grpcEncodeError(ErrUnauthorized)
		}
		return handler(ctx, req)
	}
}
