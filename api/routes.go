package api

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	v1 := s.router.Group("/gcam/v1")
	{
		v1.POST("/auction", s.handleRunAuction)
		v1.POST("/envelope", s.handleSubmitEnvelope)

		v1.GET("/stats", s.handleGetStats)
		v1.GET("/providers", s.handleGetProviders)
		v1.GET("/providers/:provider_id", s.handleGetProvider)
		v1.GET("/routes", s.handleGetRoutes)
	}
}
