package transports

import (
	"testing"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/metrics/discard"
	stdopentracing "github.com/opentracing/opentracing-go"
	stdzipkin "github.com/openzipkin/zipkin-go"
	"github.com/openzipkin/zipkin-go/reporter"
	"github.com/stretchr/testify/require"

	"github.com/cage1016/adder/pkg/addsvc/endpoints"
	"github.com/cage1016/adder/pkg/addsvc/service"
)

type tracers struct {
	ot     stdopentracing.Tracer
	zipkin *stdzipkin.Tracer
}

func newTracers(t *testing.T) tracers {
	t.Helper()
	zipkinTracer, err := stdzipkin.NewTracer(reporter.NewNoopReporter())
	require.NoError(t, err)
	return tracers{ot: stdopentracing.NoopTracer{}, zipkin: zipkinTracer}
}

func newEndpoints(t *testing.T, tr tracers) endpoints.Endpoints {
	t.Helper()
	logger := log.NewNopLogger()
	return endpoints.New(service.New(logger), logger, discard.NewHistogram(), tr.ot, tr.zipkin, 0)
}
