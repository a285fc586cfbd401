package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gix-network/gcam/x/clearing/types"
)

// handleRunAuction decodes {job, priority} and clears the job.
func (s *Server) handleRunAuction(c *gin.Context) {
	var req RunAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondFailure(c, uuid.Nil, types.ErrMalformedJob.Wrapf("invalid request body: %v", err))
		return
	}

	job, err := types.DecodeJob(req.Job)
	if err != nil {
		s.respondFailure(c, uuid.Nil, err)
		return
	}
	priority, err := types.ValidatePriority(req.Priority)
	if err != nil {
		s.respondFailure(c, job.JobID, err)
		return
	}

	match, err := s.engine.RunAuction(c.Request.Context(), job, priority)
	if err != nil {
		s.respondFailure(c, job.JobID, err)
		return
	}
	c.JSON(http.StatusOK, AuctionResponse{RunAuctionResponse: types.NewMatchResponse(match)})
}

// handleSubmitEnvelope accepts a JSON envelope as the request body.
func (s *Server) handleSubmitEnvelope(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		s.respondFailure(c, uuid.Nil, types.ErrInvalidEnvelope.Wrapf("read body: %v", err))
		return
	}

	env, err := types.DecodeEnvelope(body)
	if err != nil {
		s.respondFailure(c, uuid.Nil, err)
		return
	}

	match, err := s.engine.ProcessEnvelope(c.Request.Context(), env)
	if err != nil {
		jobID := uuid.Nil
		if job, jerr := env.Job(); jerr == nil {
			jobID = job.JobID
		}
		s.respondFailure(c, jobID, err)
		return
	}
	c.JSON(http.StatusOK, AuctionResponse{RunAuctionResponse: types.NewMatchResponse(match)})
}

func (s *Server) handleGetStats(c *gin.Context) {
	c.JSON(http.StatusOK, types.NewStatsResponse(s.engine.GetStats()))
}

func (s *Server) handleGetProviders(c *gin.Context) {
	providers := s.engine.GetProviders()
	resp := ProvidersResponse{Providers: make([]*types.ProviderInfo, 0, len(providers))}
	for _, p := range providers {
		resp.Providers = append(resp.Providers, types.NewProviderInfo(p))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetProvider(c *gin.Context) {
	p, ok := s.engine.GetProvider(c.Param("provider_id"))
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "provider not found",
			Code:  "NOT_FOUND",
		})
		return
	}
	c.JSON(http.StatusOK, types.NewProviderInfo(p))
}

func (s *Server) handleGetRoutes(c *gin.Context) {
	routes := s.engine.GetRoutes()
	resp := RoutesResponse{Routes: make([]*types.RouteInfo, 0, len(routes))}
	for _, r := range routes {
		resp.Routes = append(resp.Routes, types.NewRouteInfo(r))
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) respondFailure(c *gin.Context, jobID uuid.UUID, err error) {
	status := httpStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("auction request failed", "job_id", jobID.String(), "error", err)
	}
	c.JSON(status, AuctionResponse{
		RunAuctionResponse: types.NewFailureResponse(jobID, err),
		Suggestion:         types.GetRecoverySuggestion(err),
	})
}

// httpStatus maps clearing errors onto HTTP status codes. Unmatched auctions
// are retryable and reported as 503.
func httpStatus(err error) int {
	switch {
	case errors.Is(err, types.ErrMalformedJob),
		errors.Is(err, types.ErrInvalidEnvelope),
		errors.Is(err, types.ErrEnvelopeExpired):
		return http.StatusBadRequest
	case types.IsUnmatched(err):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}
