package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/kidbank-backend/internal/adapter/repository/memory"
	"github.com/simaogato/kidbank-backend/internal/domain"
	"github.com/simaogato/kidbank-backend/internal/infra/observability"
	"github.com/simaogato/kidbank-backend/internal/usecase/account"
)

const testToken = "test-token"

// startServer runs an AccountService over bufconn with an empty in-memory ledger
func startServer(t *testing.T, now time.Time) *AccountServiceClient {
	t.Helper()

	acc := account.NewWithClock(memory.NewTransactionRepository(), domain.FixedClock{Time: now})
	logger := zap.NewNop()

	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		LoggingInterceptor(logger),
		MetricsInterceptor(observability.NewMetrics()),
		AuthInterceptor(testToken),
	))
	RegisterAccountServiceServer(srv, NewServer(acc, logger))

	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewAccountServiceClient(conn)
}

func authed() context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+testToken)
}

func movement(t *testing.T, fields map[string]interface{}) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(fields)
	require.NoError(t, err)
	return s
}

func TestServer_DepositSpendBalance(t *testing.T) {
	client := startServer(t, time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC))
	ctx := authed()

	_, err := client.Deposit(ctx, movement(t, map[string]interface{}{
		"timestamp": "2024-03-01T10:00:00Z",
		"amount":    1000,
		"source":    "Birthday",
	}))
	require.NoError(t, err)

	_, err = client.Spend(ctx, movement(t, map[string]interface{}{
		"timestamp":   "2024-03-02T10:00:00Z",
		"amount":      300,
		"description": "Toy",
	}))
	require.NoError(t, err)

	balance, err := client.GetBalance(ctx, &emptypb.Empty{})
	require.NoError(t, err)
	assert.Equal(t, int64(700), balance.GetValue())

	list, err := client.ListTransactions(ctx, &emptypb.Empty{})
	require.NoError(t, err)
	require.Len(t, list.GetValues(), 2)

	spend := list.GetValues()[1].GetStructValue()
	assert.Equal(t, string(domain.TransactionKindSpend), spend.GetFields()["kind"].GetStringValue())
	assert.Equal(t, float64(300), spend.GetFields()["amount"].GetNumberValue())
	assert.Equal(t, float64(-300), spend.GetFields()["signed_amount"].GetNumberValue())
	assert.Equal(t, "Toy", spend.GetFields()["source"].GetStringValue())
	assert.NotEmpty(t, spend.GetFields()["id"].GetStringValue())
}

func TestServer_InvalidArguments(t *testing.T) {
	client := startServer(t, time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC))
	ctx := authed()

	tests := []struct {
		name   string
		fields map[string]interface{}
	}{
		{
			name:   "Negative Amount",
			fields: map[string]interface{}{"timestamp": "2024-03-01T10:00:00Z", "amount": -5, "source": "x"},
		},
		{
			name:   "Fractional Amount",
			fields: map[string]interface{}{"timestamp": "2024-03-01T10:00:00Z", "amount": 1.5, "source": "x"},
		},
		{
			name:   "Missing Amount",
			fields: map[string]interface{}{"timestamp": "2024-03-01T10:00:00Z", "source": "x"},
		},
		{
			name:   "Missing Timestamp",
			fields: map[string]interface{}{"amount": 10, "source": "x"},
		},
		{
			name:   "Malformed Timestamp",
			fields: map[string]interface{}{"timestamp": "yesterday", "amount": 10, "source": "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.Deposit(ctx, movement(t, tt.fields))
			assert.Equal(t, codes.InvalidArgument, status.Code(err))
		})
	}

	balance, err := client.GetBalance(ctx, &emptypb.Empty{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance.GetValue())
}

func TestServer_LoadTransactions(t *testing.T) {
	client := startServer(t, time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC))
	ctx := authed()

	history, err := structpb.NewList([]interface{}{
		map[string]interface{}{"timestamp": "2024-01-05T10:00:00Z", "kind": "DEPOSIT", "amount": 1000, "source": "Gift"},
		map[string]interface{}{"timestamp": "2024-01-20T10:00:00Z", "kind": "spend", "amount": 400, "source": "Book"},
		map[string]interface{}{"timestamp": "2024-02-01T10:00:00Z", "kind": "interest credit", "amount": 1},
	})
	require.NoError(t, err)

	count, err := client.LoadTransactions(ctx, history)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count.GetValue())

	balance, err := client.GetBalance(ctx, &emptypb.Empty{})
	require.NoError(t, err)
	assert.Equal(t, int64(601), balance.GetValue())

	list, err := client.ListTransactions(ctx, &emptypb.Empty{})
	require.NoError(t, err)
	require.Len(t, list.GetValues(), 3)
	assert.Equal(t, domain.InterestCreditSource, list.GetValues()[2].GetStructValue().GetFields()["source"].GetStringValue())
}

func TestServer_LoadTransactions_RejectsWholeBatch(t *testing.T) {
	client := startServer(t, time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC))
	ctx := authed()

	history, err := structpb.NewList([]interface{}{
		map[string]interface{}{"timestamp": "2024-01-05T10:00:00Z", "kind": "DEPOSIT", "amount": 1000, "source": "Gift"},
		map[string]interface{}{"timestamp": "2024-01-20T10:00:00Z", "kind": "REFUND", "amount": 400, "source": "Book"},
	})
	require.NoError(t, err)

	_, err = client.LoadTransactions(ctx, history)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	list, err := client.ListTransactions(ctx, &emptypb.Empty{})
	require.NoError(t, err)
	assert.Empty(t, list.GetValues())
}

func TestServer_GetBalance_CreditsInterestOnFirstOfMonth(t *testing.T) {
	client := startServer(t, time.Date(2024, time.April, 1, 9, 0, 0, 0, time.UTC))
	ctx := authed()

	_, err := client.Deposit(ctx, movement(t, map[string]interface{}{
		"timestamp": "2024-03-10T10:00:00Z",
		"amount":    12000,
		"source":    "Savings",
	}))
	require.NoError(t, err)

	balance, err := client.GetBalance(ctx, &emptypb.Empty{})
	require.NoError(t, err)
	assert.Equal(t, int64(12025), balance.GetValue())
}

func TestServer_RequiresToken(t *testing.T) {
	client := startServer(t, time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC))

	_, err := client.GetBalance(context.Background(), &emptypb.Empty{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	wrong := metadata.AppendToOutgoingContext(context.Background(), "authorization", "nope")
	_, err = client.GetBalance(wrong, &emptypb.Empty{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code codes.Code
	}{
		{name: "Invalid Amount", err: domain.ErrInvalidAmount, code: codes.InvalidArgument},
		{name: "Invalid Transaction", err: domain.ErrInvalidTransaction, code: codes.InvalidArgument},
		{name: "Store Unavailable", err: domain.ErrStoreUnavailable, code: codes.Unavailable},
		{name: "Corrupt Record", err: domain.ErrCorruptRecord, code: codes.Internal},
		{name: "Canceled", err: context.Canceled, code: codes.Canceled},
		{name: "Deadline", err: context.DeadlineExceeded, code: codes.DeadlineExceeded},
		{name: "Unknown", err: assert.AnError, code: codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, status.Code(mapError(tt.err)))
		})
	}
	assert.NoError(t, mapError(nil))
}
