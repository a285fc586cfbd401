package types

import (
	"context"

	grpc "google.golang.org/grpc"
	codes "google.golang.org/grpc/codes"
	status "google.golang.org/grpc/status"
)

const (
	AuctionService_RunAuction_FullMethodName      = "/gix.clearing.v1.AuctionService/RunAuction"
	AuctionService_SubmitEnvelope_FullMethodName  = "/gix.clearing.v1.AuctionService/SubmitEnvelope"
	AuctionService_GetAuctionStats_FullMethodName = "/gix.clearing.v1.AuctionService/GetAuctionStats"
	AuctionService_ListProviders_FullMethodName   = "/gix.clearing.v1.AuctionService/ListProviders"
	AuctionService_ListRoutes_FullMethodName      = "/gix.clearing.v1.AuctionService/ListRoutes"
)

// AuctionServiceClient is the client API for the AuctionService service.
type AuctionServiceClient interface {
	RunAuction(ctx context.Context, in *RunAuctionRequest, opts ...grpc.CallOption) (*RunAuctionResponse, error)
	SubmitEnvelope(ctx context.Context, in *SubmitEnvelopeRequest, opts ...grpc.CallOption) (*RunAuctionResponse, error)
	GetAuctionStats(ctx context.Context, in *GetAuctionStatsRequest, opts ...grpc.CallOption) (*GetAuctionStatsResponse, error)
	ListProviders(ctx context.Context, in *ListProvidersRequest, opts ...grpc.CallOption) (*ListProvidersResponse, error)
	ListRoutes(ctx context.Context, in *ListRoutesRequest, opts ...grpc.CallOption) (*ListRoutesResponse, error)
}

type auctionServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAuctionServiceClient(cc grpc.ClientConnInterface) AuctionServiceClient {
	return &auctionServiceClient{cc}
}

func (c *auctionServiceClient) RunAuction(ctx context.Context, in *RunAuctionRequest, opts ...grpc.CallOption) (*RunAuctionResponse, error) {
	out := new(RunAuctionResponse)
	err := c.cc.Invoke(ctx, AuctionService_RunAuction_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *auctionServiceClient) SubmitEnvelope(ctx context.Context, in *SubmitEnvelopeRequest, opts ...grpc.CallOption) (*RunAuctionResponse, error) {
	out := new(RunAuctionResponse)
	err := c.cc.Invoke(ctx, AuctionService_SubmitEnvelope_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *auctionServiceClient) GetAuctionStats(ctx context.Context, in *GetAuctionStatsRequest, opts ...grpc.CallOption) (*GetAuctionStatsResponse, error) {
	out := new(GetAuctionStatsResponse)
	err := c.cc.Invoke(ctx, AuctionService_GetAuctionStats_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *auctionServiceClient) ListProviders(ctx context.Context, in *ListProvidersRequest, opts ...grpc.CallOption) (*ListProvidersResponse, error) {
	out := new(ListProvidersResponse)
	err := c.cc.Invoke(ctx, AuctionService_ListProviders_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *auctionServiceClient) ListRoutes(ctx context.Context, in *ListRoutesRequest, opts ...grpc.CallOption) (*ListRoutesResponse, error) {
	out := new(ListRoutesResponse)
	err := c.cc.Invoke(ctx, AuctionService_ListRoutes_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AuctionServiceServer is the server API for the AuctionService service.
type AuctionServiceServer interface {
	RunAuction(context.Context, *RunAuctionRequest) (*RunAuctionResponse, error)
	SubmitEnvelope(context.Context, *SubmitEnvelopeRequest) (*RunAuctionResponse, error)
	GetAuctionStats(context.Context, *GetAuctionStatsRequest) (*GetAuctionStatsResponse, error)
	ListProviders(context.Context, *ListProvidersRequest) (*ListProvidersResponse, error)
	ListRoutes(context.Context, *ListRoutesRequest) (*ListRoutesResponse, error)
}

// UnimplementedAuctionServiceServer can be embedded to have forward compatible implementations.
type UnimplementedAuctionServiceServer struct{}

func (UnimplementedAuctionServiceServer) RunAuction(context.Context, *RunAuctionRequest) (*RunAuctionResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RunAuction not implemented")
}
func (UnimplementedAuctionServiceServer) SubmitEnvelope(context.Context, *SubmitEnvelopeRequest) (*RunAuctionResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SubmitEnvelope not implemented")
}
func (UnimplementedAuctionServiceServer) GetAuctionStats(context.Context, *GetAuctionStatsRequest) (*GetAuctionStatsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetAuctionStats not implemented")
}
func (UnimplementedAuctionServiceServer) ListProviders(context.Context, *ListProvidersRequest) (*ListProvidersResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListProviders not implemented")
}
func (UnimplementedAuctionServiceServer) ListRoutes(context.Context, *ListRoutesRequest) (*ListRoutesResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListRoutes not implemented")
}

func RegisterAuctionServiceServer(s grpc.ServiceRegistrar, srv AuctionServiceServer) {
	s.RegisterService(&AuctionService_ServiceDesc, srv)
}

func _AuctionService_RunAuction_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(RunAuctionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AuctionServiceServer).RunAuction(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: AuctionService_RunAuction_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AuctionServiceServer).RunAuction(ctx, req.(*RunAuctionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _AuctionService_SubmitEnvelope_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(SubmitEnvelopeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AuctionServiceServer).SubmitEnvelope(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: AuctionService_SubmitEnvelope_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AuctionServiceServer).SubmitEnvelope(ctx, req.(*SubmitEnvelopeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _AuctionService_GetAuctionStats_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetAuctionStatsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AuctionServiceServer).GetAuctionStats(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: AuctionService_GetAuctionStats_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AuctionServiceServer).GetAuctionStats(ctx, req.(*GetAuctionStatsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _AuctionService_ListProviders_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ListProvidersRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AuctionServiceServer).ListProviders(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: AuctionService_ListProviders_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AuctionServiceServer).ListProviders(ctx, req.(*ListProvidersRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _AuctionService_ListRoutes_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ListRoutesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AuctionServiceServer).ListRoutes(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: AuctionService_ListRoutes_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AuctionServiceServer).ListRoutes(ctx, req.(*ListRoutesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// AuctionService_ServiceDesc is the grpc.ServiceDesc for AuctionService service.
var AuctionService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AuctionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "RunAuction",
			Handler:    _AuctionService_RunAuction_Handler,
		},
		{
			MethodName: "SubmitEnvelope",
			Handler:    _AuctionService_SubmitEnvelope_Handler,
		},
		{
			MethodName: "GetAuctionStats",
			Handler:    _AuctionService_GetAuctionStats_Handler,
		},
		{
			MethodName: "ListProviders",
			Handler:    _AuctionService_ListProviders_Handler,
		},
		{
			MethodName: "ListRoutes",
			Handler:    _AuctionService_ListRoutes_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gix/clearing/v1/clearing.proto",
}
