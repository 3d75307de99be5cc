package transports

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-kit/kit/circuitbreaker"
	"github.com/go-kit/kit/endpoint"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/ratelimit"
	"github.com/go-kit/kit/tracing/opentracing"
	"github.com/go-kit/kit/tracing/zipkin"
	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"
	stdopentracing "github.com/opentracing/opentracing-go"
	stdzipkin "github.com/openzipkin/zipkin-go"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/cage1016/adder/pkg/addsvc/endpoints"
	"github.com/cage1016/adder/pkg/addsvc/service"
)

// maxFormMemory bounds the in-memory part of multipart form bodies.
const maxFormMemory = 1 << 20

type errorWrapper struct {
	Error string `json:"error"`
}

func JSONErrorDecoder(r *http.Response) error {
	contentType := r.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		return fmt.Errorf("expected JSON formatted error, got Content-Type %s", contentType)
	}
	var w errorWrapper
	if err := json.NewDecoder(r.Body).Decode(&w); err != nil {
		return err
	}
	return businessError(w.Error)
}

// NewHTTPHandler returns a handler that makes a set of endpoints available on
// predefined paths.
func NewHTTPHandler(endpoints endpoints.Endpoints, cfg Config, otTracer stdopentracing.Tracer, zipkinTracer *stdzipkin.Tracer, logger log.Logger) http.Handler {
	// Zipkin HTTP Server Trace can either be instantiated per endpoint with a
	// provided operation name or a global tracing service can be instantiated
	// without an operation name and fed to each Go kit endpoint as ServerOption.
	// In the latter case, the operation name will be the endpoint's http method.
	zipkinServer := zipkin.HTTPServerTrace(zipkinTracer)

	options := []httptransport.ServerOption{
		httptransport.ServerErrorEncoder(httpEncodeError),
		httptransport.ServerErrorLogger(logger),
		zipkinServer,
	}

	r := mux.NewRouter()
	r.Methods(http.MethodPost).Path("/add").Handler(httptransport.NewServer(
		endpoints.AddEndpoint,
		decodeHTTPAddRequest,
		encodeHTTPResponse,
		append(options, httptransport.ServerBefore(opentracing.HTTPToContext(otTracer, "Add", logger)))...,
	))
	r.Methods(http.MethodGet).Path("/status").Handler(httptransport.NewServer(
		endpoints.StatusEndpoint,
		decodeHTTPStatusRequest,
		encodeHTTPResponse,
		append(options, httptransport.ServerBefore(opentracing.HTTPToContext(otTracer, "Status", logger)))...,
	))
	r.Methods(http.MethodGet).Path("/").Handler(IndexHandler(logger))
	if cfg.PublicDir != "" {
		r.PathPrefix("/public/").Handler(http.StripPrefix("/public/", http.FileServer(http.Dir(cfg.PublicDir))))
	}
	r.Use(APIKeyMiddleware(cfg, logger))
	return r
}

// decodeHTTPAddRequest is a transport/http.DecodeRequestFunc that decodes an
// add request from either a form-encoded or a JSON-encoded body. A form field
// that is not submitted stays absent. An empty JSON body decodes as a request
// with both operands absent.
func decodeHTTPAddRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var req endpoints.AddRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := parseForm(r, mediaType); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
		}
		req.Num1 = formOperand(r.PostForm, "num1")
		req.Num2 = formOperand(r.PostForm, "num2")
		return req, nil
	}
	switch err := json.NewDecoder(r.Body).Decode(&req); err {
	case nil, io.EOF:
		return req, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
}

func parseForm(r *http.Request, mediaType string) error {
	if mediaType == "multipart/form-data" {
		return r.ParseMultipartForm(maxFormMemory)
	}
	return r.ParseForm()
}

func formOperand(form url.Values, key string) service.Operand {
	vs, ok := form[key]
	if !ok || len(vs) == 0 {
		return service.Absent()
	}
	return service.String(vs[0])
}

func decodeHTTPStatusRequest(_ context.Context, _ *http.Request) (interface{}, error) {
	return endpoints.StatusRequest{}, nil
}

// encodeHTTPResponse is a transport/http.EncodeResponseFunc that encodes the
// response as JSON to the response writer, unless the response carries a
// business error, which is encoded as an error instead.
func encodeHTTPResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	if f, ok := response.(endpoints.Failer); ok && f.Failed() != nil {
		httpEncodeError(ctx, f.Failed(), w)
		return nil
	}
	return httptransport.EncodeJSONResponse(ctx, w, response)
}

// NewHTTPClient returns an AddService backed by an HTTP server living at the
// remote instance. We expect instance to come from a service discovery system,
// so likely of the form "host:port". We bake-in certain middlewares,
// implementing the client library pattern.
func NewHTTPClient(instance string, apiKey string, otTracer stdopentracing.Tracer, zipkinTracer *stdzipkin.Tracer, logger log.Logger) (endpoints.Endpoints, error) {
	if !strings.HasPrefix(instance, "http") {
		instance = "http://" + instance
	}
	u, err := url.Parse(instance)
	if err != nil {
		return endpoints.Endpoints{}, err
	}

	// We construct a single ratelimiter middleware, to limit the total outgoing
	// QPS from this client to all methods on the remote instance.
	limiter := ratelimit.NewErroringLimiter(rate.NewLimiter(rate.Limit(100), 100))

	// global client middlewares
	options := []httptransport.ClientOption{
		zipkin.HTTPClientTrace(zipkinTracer),
	}
	if apiKey != "" {
		options = append(options, httptransport.ClientBefore(httptransport.SetRequestHeader(APIKeyHeader, apiKey)))
	}

	e := endpoints.Endpoints{}

	// Each individual endpoint is an http/transport.Client (which implements
	// endpoint.Endpoint) that gets wrapped with various middlewares. Business
	// errors come back inside the response and never reach the breaker.
	var addEndpoint endpoint.Endpoint
	{
		addEndpoint = httptransport.NewClient(
			http.MethodPost,
			copyURL(u, "/add"),
			encodeHTTPRequest,
			decodeHTTPAddResponse,
			append(options, httptransport.ClientBefore(opentracing.ContextToHTTP(otTracer, logger)))...,
		).Endpoint()
		addEndpoint = opentracing.TraceClient(otTracer, "Add")(addEndpoint)
		addEndpoint = zipkin.TraceEndpoint(zipkinTracer, "Add")(addEndpoint)
		addEndpoint = limiter(addEndpoint)
		addEndpoint = circuitbreaker.Gobreaker(gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "Add",
			Timeout: 30 * time.Second,
		}))(addEndpoint)
		e.AddEndpoint = addEndpoint
	}

	var statusEndpoint endpoint.Endpoint
	{
		statusEndpoint = httptransport.NewClient(
			http.MethodGet,
			copyURL(u, "/status"),
			encodeHTTPStatusRequest,
			decodeHTTPStatusResponse,
			append(options, httptransport.ClientBefore(opentracing.ContextToHTTP(otTracer, logger)))...,
		).Endpoint()
		statusEndpoint = opentracing.TraceClient(otTracer, "Status")(statusEndpoint)
		statusEndpoint = limiter(statusEndpoint)
		e.StatusEndpoint = statusEndpoint
	}

	return e, nil
}

func copyURL(base *url.URL, path string) *url.URL {
	next := *base
	next.Path = strings.TrimSuffix(base.Path, "/") + path
	return &next
}

// encodeHTTPRequest is a transport/http.EncodeRequestFunc that
// JSON-encodes any request to the request body. Primarily useful in a client.
func encodeHTTPRequest(_ context.Context, r *http.Request, request interface{}) (err error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(request); err != nil {
		return err
	}
	r.Header.Set("Content-Type", "application/json; charset=utf-8")
	r.Body = ioutil.NopCloser(&buf)
	return nil
}

func encodeHTTPStatusRequest(_ context.Context, _ *http.Request, _ interface{}) error {
	return nil
}

// decodeHTTPAddResponse is a transport/http.DecodeResponseFunc that decodes a
// JSON-encoded add response from the HTTP response body. A 400 is a business
// error and is returned inside the response; any other non-200 status code is
// a transport error. Primarily useful in a client.
func decodeHTTPAddResponse(_ context.Context, r *http.Response) (interface{}, error) {
	switch r.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest:
		return endpoints.AddResponse{Err: JSONErrorDecoder(r)}, nil
	default:
		return nil, JSONErrorDecoder(r)
	}
	var resp endpoints.AddResponse
	err := json.NewDecoder(r.Body).Decode(&resp)
	return resp, err
}

func decodeHTTPStatusResponse(_ context.Context, r *http.Response) (interface{}, error) {
	if r.StatusCode != http.StatusOK {
		return nil, JSONErrorDecoder(r)
	}
	var resp endpoints.StatusResponse
	err := json.NewDecoder(r.Body).Decode(&resp)
	return resp, err
}

// businessError restores the service sentinel from an error message received
// over the wire.
func businessError(msg string) error {
	if rest := strings.TrimPrefix(msg, service.ErrMissingInput.Error()); rest != msg {
		return fmt.Errorf("%w%s", service.ErrMissingInput, rest)
	}
	return errors.New(msg)
}
