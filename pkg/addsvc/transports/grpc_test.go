package transports

import (
	"context"
	"math"
	"net"
	"testing"

	"github.com/go-kit/kit/log"
	"github.com/golang/protobuf/proto"
	descpb "github.com/golang/protobuf/protoc-gen-go/descriptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthgrpc "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	rpb "google.golang.org/grpc/reflection/grpc_reflection_v1alpha"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	pb "github.com/cage1016/adder/pb/addsvc"
	"github.com/cage1016/adder/pkg/addsvc/service"
)

func newGRPCConn(t *testing.T, cfg Config) *grpc.ClientConn {
	t.Helper()
	tr := newTracers(t)
	logger := log.NewNopLogger()

	server, _ := NewGRPCServer(MakeGRPCServer(newEndpoints(t, tr), tr.ot, tr.zipkin, logger), "addsvc", cfg, tr.ot, logger)
	lis := bufconn.Listen(1 << 20)
	go server.Serve(lis)
	t.Cleanup(server.Stop)

	conn, err := grpc.DialContext(context.Background(), "bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) { return lis.Dial() }),
		grpc.WithInsecure(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestGRPCClient(t *testing.T) {
	conn := newGRPCConn(t, Config{})
	tr := newTracers(t)
	client := NewGRPCClient(conn, "", tr.ot, tr.zipkin, log.NewNopLogger())
	ctx := context.Background()

	rs, err := client.Add(ctx, service.Number(2.5), service.String("3.1"))
	require.NoError(t, err)
	assert.InDelta(t, 5.6, rs, 1e-9)

	rs, err = client.Add(ctx, service.String("a"), service.Number(2))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(rs))

	rs, err = client.Add(ctx, service.Number(math.MaxFloat64), service.Number(math.MaxFloat64))
	require.NoError(t, err)
	assert.True(t, math.IsInf(rs, 1))

	live, err := client.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "live", live)
}

func TestGRPCClientMissingInputKeepsBreakerClosed(t *testing.T) {
	conn := newGRPCConn(t, Config{})
	tr := newTracers(t)
	client := NewGRPCClient(conn, "", tr.ot, tr.zipkin, log.NewNopLogger())
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		_, err := client.Add(ctx, service.Null(), service.Number(2))
		assert.ErrorIs(t, err, service.ErrMissingInput)
	}
	rs, err := client.Add(ctx, service.Number(1), service.Number(2))
	require.NoError(t, err)
	assert.Equal(t, 3.0, rs)
}

func TestGRPCMissingInputIsInvalidArgument(t *testing.T) {
	conn := newGRPCConn(t, Config{})

	_, err := pb.NewAddsvcClient(conn).Add(context.Background(), &pb.AddRequest{
		Num1: &pb.Operand{Kind: pb.Operand_STRING, Text: ""},
		Num2: &pb.Operand{Kind: pb.Operand_NUMBER, Number: 5},
	})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestGRPCAPIKey(t *testing.T) {
	conn := newGRPCConn(t, Config{APIKey: "s3cret"})
	raw := pb.NewAddsvcClient(conn)
	req := &pb.AddRequest{
		Num1: &pb.Operand{Kind: pb.Operand_NUMBER, Number: 1},
		Num2: &pb.Operand{Kind: pb.Operand_NUMBER, Number: 2},
	}

	_, err := raw.Add(context.Background(), req)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	ctx := metadata.AppendToOutgoingContext(context.Background(), "x-api-key", "s3cret")
	reply, err := raw.Add(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 3.0, reply.GetResult())

	hc, err := healthgrpc.NewHealthClient(conn).Check(context.Background(), &healthgrpc.HealthCheckRequest{Service: "addsvc"})
	require.NoError(t, err)
	assert.Equal(t, healthgrpc.HealthCheckResponse_SERVING, hc.GetStatus())

	tr := newTracers(t)
	rs, err := NewGRPCClient(conn, "s3cret", tr.ot, tr.zipkin, log.NewNopLogger()).Add(context.Background(), service.Number(4), service.Number(5))
	require.NoError(t, err)
	assert.Equal(t, 9.0, rs)
}

func TestGRPCReflectionDescribesAddsvc(t *testing.T) {
	conn := newGRPCConn(t, Config{})

	stream, err := rpb.NewServerReflectionClient(conn).ServerReflectionInfo(context.Background())
	require.NoError(t, err)
	require.NoError(t, stream.Send(&rpb.ServerReflectionRequest{
		MessageRequest: &rpb.ServerReflectionRequest_FileContainingSymbol{FileContainingSymbol: "pb.Addsvc"},
	}))
	resp, err := stream.Recv()
	require.NoError(t, err)
	require.Nil(t, resp.GetErrorResponse())

	files := resp.GetFileDescriptorResponse().GetFileDescriptorProto()
	require.NotEmpty(t, files)
	var fd descpb.FileDescriptorProto
	require.NoError(t, proto.Unmarshal(files[0], &fd))
	assert.Equal(t, "addsvc.proto", fd.GetName())
	require.Len(t, fd.GetService(), 1)
	assert.Equal(t, "Addsvc", fd.GetService()[0].GetName())
	require.NoError(t, stream.CloseSend())
}
