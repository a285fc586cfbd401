package keeper

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/gix-network/gcam/x/clearing/types"
)

var _ types.AuctionServiceServer = grpcServer{}

type grpcServer struct {
	*Keeper
}

// NewGRPCServerImpl returns an implementation of the AuctionServiceServer
// interface backed by k.
func NewGRPCServerImpl(k *Keeper) types.AuctionServiceServer {
	return grpcServer{Keeper: k}
}

// RunAuction decodes the job and clears it. Decoding and clearing failures
// are reported in-band.
func (s grpcServer) RunAuction(ctx context.Context, req *types.RunAuctionRequest) (*types.RunAuctionResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	job, err := types.DecodeJob(req.Job)
	if err != nil {
		s.metrics.observeAuction(OutcomeMalformed, types.PriorityLow, 0)
		return types.NewFailureResponse(uuid.Nil, err), nil
	}

	priority, err := types.ValidatePriority(req.Priority)
	if err != nil {
		s.metrics.observeAuction(OutcomeMalformed, types.PriorityCritical, 0)
		return types.NewFailureResponse(job.JobID, err), nil
	}

	match, err := s.Keeper.RunAuction(ctx, job, priority)
	if err != nil {
		return s.failure(ctx, job.JobID, err)
	}
	return types.NewMatchResponse(match), nil
}

// SubmitEnvelope decodes the envelope and processes it.
func (s grpcServer) SubmitEnvelope(ctx context.Context, req *types.SubmitEnvelopeRequest) (*types.RunAuctionResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "empty request")
	}

	env, err := types.DecodeEnvelope(req.Envelope)
	if err != nil {
		return types.NewFailureResponse(uuid.Nil, err), nil
	}

	match, err := s.Keeper.ProcessEnvelope(ctx, env)
	if err != nil {
		var jobID uuid.UUID
		if job, jobErr := env.Job(); jobErr == nil {
			jobID = job.JobID
		}
		return s.failure(ctx, jobID, err)
	}
	return types.NewMatchResponse(match), nil
}

// GetAuctionStats returns the cumulative statistics.
func (s grpcServer) GetAuctionStats(_ context.Context, _ *types.GetAuctionStatsRequest) (*types.GetAuctionStatsResponse, error) {
	return types.NewStatsResponse(s.GetStats()), nil
}

// ListProviders returns all providers ordered by ID.
func (s grpcServer) ListProviders(_ context.Context, _ *types.ListProvidersRequest) (*types.ListProvidersResponse, error) {
	providers := s.GetProviders()
	resp := &types.ListProvidersResponse{Providers: make([]*types.ProviderInfo, 0, len(providers))}
	for _, p := range providers {
		resp.Providers = append(resp.Providers, types.NewProviderInfo(p))
	}
	return resp, nil
}

// ListRoutes returns all routes ordered by ID.
func (s grpcServer) ListRoutes(_ context.Context, _ *types.ListRoutesRequest) (*types.ListRoutesResponse, error) {
	routes := s.GetRoutes()
	resp := &types.ListRoutesResponse{Routes: make([]*types.RouteInfo, 0, len(routes))}
	for _, r := range routes {
		resp.Routes = append(resp.Routes, types.NewRouteInfo(r))
	}
	return resp, nil
}

// failure maps a clearing error to an in-band response. A cancelled caller
// context surfaces as a gRPC status instead.
func (s grpcServer) failure(ctx context.Context, jobID uuid.UUID, err error) (*types.RunAuctionResponse, error) {
	if ctxErr := ctx.Err(); ctxErr != nil && err == ctxErr {
		return nil, status.FromContextError(ctxErr).Err()
	}
	return types.NewFailureResponse(jobID, err), nil
}
