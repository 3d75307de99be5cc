package endpoints

import (
	"context"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/go-kit/kit/ratelimit"
	stdopentracing "github.com/opentracing/opentracing-go"
	stdzipkin "github.com/openzipkin/zipkin-go"
	"github.com/openzipkin/zipkin-go/reporter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cage1016/adder/pkg/addsvc/service"
)

func newLimitedEndpoints(t *testing.T, qps int) Endpoints {
	t.Helper()
	zipkinTracer, err := stdzipkin.NewTracer(reporter.NewNoopReporter())
	require.NoError(t, err)
	logger := log.NewNopLogger()
	return New(service.New(logger), logger, discard.NewHistogram(), stdopentracing.NoopTracer{}, zipkinTracer, qps)
}

func newEndpoints(t *testing.T) Endpoints {
	return newLimitedEndpoints(t, 0)
}

func TestAddEndpoint(t *testing.T) {
	eps := newEndpoints(t)

	resp, err := eps.AddEndpoint(context.Background(), AddRequest{Num1: service.Number(1), Num2: service.Number(2)})
	require.NoError(t, err)
	assert.Equal(t, AddResponse{Result: 3}, resp)
}

func TestAddEndpointCarriesServiceError(t *testing.T) {
	eps := newEndpoints(t)

	resp, err := eps.AddEndpoint(context.Background(), AddRequest{Num2: service.Number(5)})
	require.NoError(t, err)
	assert.ErrorIs(t, resp.(AddResponse).Failed(), service.ErrMissingInput)
}

func TestAddEndpointMissingInputDoesNotOpenBreaker(t *testing.T) {
	eps := newEndpoints(t)

	for i := 0; i < 20; i++ {
		_, err := eps.AddEndpoint(context.Background(), AddRequest{})
		require.NoError(t, err)
	}
	resp, err := eps.AddEndpoint(context.Background(), AddRequest{Num1: service.String("2.5"), Num2: service.Number(3.1)})
	require.NoError(t, err)
	assert.InDelta(t, 5.6, float64(resp.(AddResponse).Result), 1e-9)
}

func TestEndpointsAsService(t *testing.T) {
	var svc service.AddsvcService = newEndpoints(t)

	rs, err := svc.Add(context.Background(), service.String("a"), service.Number(2))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(rs))

	_, err = svc.Add(context.Background(), service.String(""), service.Number(2))
	assert.ErrorIs(t, err, service.ErrMissingInput)
}

func TestStatusEndpoint(t *testing.T) {
	at := time.Date(2024, 3, 9, 10, 11, 12, 345000000, time.FixedZone("x", 3600))
	resp, err := MakeStatusEndpoint(func() time.Time { return at })(context.Background(), StatusRequest{})
	require.NoError(t, err)

	b, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"live","timestamp":"2024-03-09T09:11:12.345Z"}`, string(b))

	status, err := newEndpoints(t).Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusLive, status)
}

func TestAddEndpointBurstWithinLimit(t *testing.T) {
	eps := newLimitedEndpoints(t, 1000)

	req := AddRequest{Num1: service.Number(2.5), Num2: service.Number(3.1)}
	for i := 0; i < 500; i++ {
		resp, err := eps.AddEndpoint(context.Background(), req)
		require.NoError(t, err)
		assert.InDelta(t, 5.6, float64(resp.(AddResponse).Result), 1e-9)
	}
}

func TestAddEndpointUnlimited(t *testing.T) {
	eps := newEndpoints(t)

	for i := 0; i < 2000; i++ {
		_, err := eps.AddEndpoint(context.Background(), AddRequest{Num1: service.Number(1), Num2: service.Number(2)})
		require.NoError(t, err)
	}
}

func TestAddEndpointRateLimited(t *testing.T) {
	eps := newLimitedEndpoints(t, 1)

	req := AddRequest{Num1: service.Number(1), Num2: service.Number(2)}
	_, err := eps.AddEndpoint(context.Background(), req)
	require.NoError(t, err)
	_, err = eps.AddEndpoint(context.Background(), req)
	assert.Equal(t, ratelimit.ErrLimited, err)
}
