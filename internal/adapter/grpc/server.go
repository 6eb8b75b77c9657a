package grpc

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/simaogato/kidbank-backend/internal/domain"
	"github.com/simaogato/kidbank-backend/internal/usecase/account"
)

// Server implements the AccountService gRPC server.
// Account is not safe for concurrent use, so every RPC holds mu.
type Server struct {
	mu      sync.Mutex
	Account *account.Account
	Logger  *zap.Logger
}

// NewServer creates a new gRPC server instance
func NewServer(acc *account.Account, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		Account: acc,
		Logger:  logger,
	}
}

// GetBalance handles the GetBalance RPC. Interest may be credited as a side effect.
func (s *Server) GetBalance(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.Int64Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	balance, err := s.Account.Balance(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return wrapperspb.Int64(balance), nil
}

// Deposit handles the Deposit RPC
func (s *Server) Deposit(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	timestamp, amount, err := parseMovement(req)
	if err != nil {
		return nil, err
	}
	source := stringField(req, "source")

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Account.Deposit(ctx, timestamp, amount, source); err != nil {
		return nil, mapError(err)
	}
	return &emptypb.Empty{}, nil
}

// Spend handles the Spend RPC
func (s *Server) Spend(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	timestamp, amount, err := parseMovement(req)
	if err != nil {
		return nil, err
	}
	description := stringField(req, "description")

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Account.Spend(ctx, timestamp, amount, description); err != nil {
		return nil, mapError(err)
	}
	return &emptypb.Empty{}, nil
}

// ListTransactions handles the ListTransactions RPC
func (s *Server) ListTransactions(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	s.mu.Lock()
	transactions := s.Account.Transactions()
	s.mu.Unlock()

	values := make([]*structpb.Value, 0, len(transactions))
	for _, tx := range transactions {
		item, err := domainTransactionToStruct(tx)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "failed to encode transaction %s: %v", tx.ID, err)
		}
		values = append(values, structpb.NewStructValue(item))
	}

	return &structpb.ListValue{Values: values}, nil
}

// LoadTransactions handles the LoadTransactions RPC (bulk import of history)
func (s *Server) LoadTransactions(ctx context.Context, req *structpb.ListValue) (*wrapperspb.Int64Value, error) {
	transactions := make([]domain.Transaction, 0, len(req.GetValues()))
	for i, value := range req.GetValues() {
		item := value.GetStructValue()
		if item == nil {
			return nil, status.Errorf(codes.InvalidArgument, "item %d: must be an object", i)
		}

		tx, err := structToDomainTransaction(item)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "item %d: %v", i, err)
		}
		transactions = append(transactions, tx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Account.Load(ctx, transactions); err != nil {
		return nil, mapError(err)
	}

	s.Logger.Info("transactions imported over gRPC", zap.Int("count", len(transactions)))
	return wrapperspb.Int64(int64(len(transactions))), nil
}

// parseMovement reads the timestamp and amount fields shared by Deposit and Spend
func parseMovement(req *structpb.Struct) (time.Time, int64, error) {
	timestamp, err := timestampField(req, "timestamp")
	if err != nil {
		return time.Time{}, 0, status.Errorf(codes.InvalidArgument, "%v", err)
	}

	amount, err := amountField(req, "amount")
	if err != nil {
		return time.Time{}, 0, status.Errorf(codes.InvalidArgument, "%v", err)
	}

	return timestamp, amount, nil
}

func structToDomainTransaction(item *structpb.Struct) (domain.Transaction, error) {
	timestamp, err := timestampField(item, "timestamp")
	if err != nil {
		return domain.Transaction{}, err
	}

	kind, err := domain.ParseTransactionKind(stringField(item, "kind"))
	if err != nil {
		return domain.Transaction{}, err
	}

	amount, err := amountField(item, "amount")
	if err != nil {
		return domain.Transaction{}, err
	}

	source := stringField(item, "source")
	if kind == domain.TransactionKindInterestCredit && source == "" {
		source = domain.InterestCreditSource
	}

	return domain.Transaction{
		Timestamp: timestamp,
		Kind:      kind,
		Amount:    amount,
		Source:    source,
	}, nil
}

func domainTransactionToStruct(tx domain.Transaction) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"id":            tx.ID.String(),
		"timestamp":     tx.Timestamp.Format(time.RFC3339),
		"kind":          string(tx.Kind),
		"amount":        tx.Amount,
		"signed_amount": tx.SignedAmount(),
		"source":        tx.Source,
	})
}

func stringField(s *structpb.Struct, name string) string {
	return s.GetFields()[name].GetStringValue()
}

func timestampField(s *structpb.Struct, name string) (time.Time, error) {
	raw := stringField(s, name)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%s is required", name)
	}

	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s format: %v", name, err)
	}
	return ts, nil
}

// amountField reads a whole number of minor units. Sign is checked by the domain.
func amountField(s *structpb.Struct, name string) (int64, error) {
	value, ok := s.GetFields()[name]
	if !ok {
		return 0, fmt.Errorf("%s is required", name)
	}

	number, ok := value.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("%s must be a number", name)
	}

	amount := number.NumberValue
	if amount != math.Trunc(amount) || math.Abs(amount) > 1<<53 {
		return 0, fmt.Errorf("%s must be a whole number of minor units", name)
	}
	return int64(amount), nil
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrInvalidTransaction):
		return status.Errorf(codes.InvalidArgument, "%s", err.Error())
	case errors.Is(err, domain.ErrStoreUnavailable):
		return status.Errorf(codes.Unavailable, "%s", err.Error())
	case errors.Is(err, context.Canceled):
		return status.Errorf(codes.Canceled, "%s", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Errorf(codes.DeadlineExceeded, "%s", err.Error())
	}

	// Default to Internal error for unknown errors
	return status.Errorf(codes.Internal, "%s", err.Error())
}
