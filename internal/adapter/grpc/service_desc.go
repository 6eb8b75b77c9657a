package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The AccountService is described with protobuf well-known types, so no generated
// code is needed. Request and response shapes:
//
//	GetBalance(Empty) -> Int64Value
//	Deposit(Struct{timestamp, amount, source}) -> Empty
//	Spend(Struct{timestamp, amount, description}) -> Empty
//	ListTransactions(Empty) -> ListValue of Struct{id, timestamp, kind, amount, signed_amount, source}
//	LoadTransactions(ListValue of Struct{timestamp, kind, amount, source}) -> Int64Value (count loaded)
const (
	AccountServiceName = "kidbank.v1.AccountService"

	GetBalanceMethod       = "/kidbank.v1.AccountService/GetBalance"
	DepositMethod          = "/kidbank.v1.AccountService/Deposit"
	SpendMethod            = "/kidbank.v1.AccountService/Spend"
	ListTransactionsMethod = "/kidbank.v1.AccountService/ListTransactions"
	LoadTransactionsMethod = "/kidbank.v1.AccountService/LoadTransactions"
)

// AccountServiceServer is the server API for the AccountService
type AccountServiceServer interface {
	GetBalance(context.Context, *emptypb.Empty) (*wrapperspb.Int64Value, error)
	Deposit(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	Spend(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	ListTransactions(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
	LoadTransactions(context.Context, *structpb.ListValue) (*wrapperspb.Int64Value, error)
}

// RegisterAccountServiceServer registers srv on the gRPC server
func RegisterAccountServiceServer(s grpc.ServiceRegistrar, srv AccountServiceServer) {
	s.RegisterService(&accountServiceDesc, srv)
}

var accountServiceDesc = grpc.ServiceDesc{
	ServiceName: AccountServiceName,
	HandlerType: (*AccountServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetBalance", Handler: getBalanceHandler},
		{MethodName: "Deposit", Handler: depositHandler},
		{MethodName: "Spend", Handler: spendHandler},
		{MethodName: "ListTransactions", Handler: listTransactionsHandler},
		{MethodName: "LoadTransactions", Handler: loadTransactionsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "kidbank/v1/account.proto",
}

// unaryHandler decodes the request into in and runs call through the interceptor chain
func unaryHandler[Req any, Resp any](
	srv interface{},
	ctx context.Context,
	dec func(interface{}) error,
	interceptor grpc.UnaryServerInterceptor,
	in *Req,
	fullMethod string,
	call func(AccountServiceServer, context.Context, *Req) (Resp, error),
) (interface{}, error) {
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return call(srv.(AccountServiceServer), ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: fullMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return call(srv.(AccountServiceServer), ctx, req.(*Req))
	}
	return interceptor(ctx, in, info, handler)
}

func getBalanceHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return unaryHandler(srv, ctx, dec, interceptor, new(emptypb.Empty), GetBalanceMethod, AccountServiceServer.GetBalance)
}

func depositHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return unaryHandler(srv, ctx, dec, interceptor, new(structpb.Struct), DepositMethod, AccountServiceServer.Deposit)
}

func spendHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return unaryHandler(srv, ctx, dec, interceptor, new(structpb.Struct), SpendMethod, AccountServiceServer.Spend)
}

func listTransactionsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return unaryHandler(srv, ctx, dec, interceptor, new(emptypb.Empty), ListTransactionsMethod, AccountServiceServer.ListTransactions)
}

func loadTransactionsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return unaryHandler(srv, ctx, dec, interceptor, new(structpb.ListValue), LoadTransactionsMethod, AccountServiceServer.LoadTransactions)
}

// AccountServiceClient is the client API for the AccountService
type AccountServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewAccountServiceClient creates a client on an existing connection
func NewAccountServiceClient(cc grpc.ClientConnInterface) *AccountServiceClient {
	return &AccountServiceClient{cc: cc}
}

// GetBalance calls AccountService.GetBalance
func (c *AccountServiceClient) GetBalance(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.Int64Value, error) {
	out := new(wrapperspb.Int64Value)
	if err := c.cc.Invoke(ctx, GetBalanceMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Deposit calls AccountService.Deposit
func (c *AccountServiceClient) Deposit(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, DepositMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Spend calls AccountService.Spend
func (c *AccountServiceClient) Spend(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, SpendMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTransactions calls AccountService.ListTransactions
func (c *AccountServiceClient) ListTransactions(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, ListTransactionsMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadTransactions calls AccountService.LoadTransactions
func (c *AccountServiceClient) LoadTransactions(ctx context.Context, in *structpb.ListValue, opts ...grpc.CallOption) (*wrapperspb.Int64Value, error) {
	out := new(wrapperspb.Int64Value)
	if err := c.cc.Invoke(ctx, LoadTransactionsMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
