package app

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"cosmossdk.io/log"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/gix-network/gcam/x/clearing/types"
)

func testConfig(t *testing.T, home string) Config {
	t.Helper()
	cfg := DefaultConfig(home)
	cfg.GRPC.Address = "127.0.0.1:0"
	cfg.API.Address = "127.0.0.1:0"
	cfg.Telemetry.MetricsPort = 0
	cfg.Telemetry.HealthPort = 0
	require.NoError(t, cfg.Validate())
	return cfg
}

type AppTestSuite struct {
	suite.Suite
	home string
	app  *GCAMApp
	conn *grpc.ClientConn
}

func TestAppTestSuite(t *testing.T) {
	suite.Run(t, new(AppTestSuite))
}

func (s *AppTestSuite) SetupTest() {
	s.home = s.T().TempDir()
	s.startApp()
}

func (s *AppTestSuite) TearDownTest() {
	s.stopApp()
}

func (s *AppTestSuite) startApp() {
	app, err := NewGCAMApp(testConfig(s.T(), s.home), log.NewNopLogger(), nil)
	s.Require().NoError(err)
	s.Require().NoError(app.Start())
	s.app = app

	addr, ok := app.Addr("grpc")
	s.Require().True(ok)
	conn, err := grpc.NewClient(addr.String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	s.Require().NoError(err)
	s.conn = conn
}

func (s *AppTestSuite) stopApp() {
	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
	if s.app != nil {
		s.Require().NoError(s.app.Close())
		s.app = nil
	}
}

func (s *AppTestSuite) ctx() context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	s.T().Cleanup(cancel)
	return ctx
}

func (s *AppTestSuite) runAuction(precision types.Precision) *types.RunAuctionResponse {
	payload, err := types.NewJob("llama", precision, 1024).Marshal()
	s.Require().NoError(err)
	resp, err := types.NewAuctionServiceClient(s.conn).RunAuction(s.ctx(), &types.RunAuctionRequest{Job: payload, Priority: 64})
	s.Require().NoError(err)
	return resp
}

func (s *AppTestSuite) TestGRPCHealthServing() {
	resp, err := healthpb.NewHealthClient(s.conn).Check(s.ctx(), &healthpb.HealthCheckRequest{Service: types.ServiceName})
	s.Require().NoError(err)
	s.Require().Equal(healthpb.HealthCheckResponse_SERVING, resp.Status)
}

func (s *AppTestSuite) TestAuctionOverGRPC() {
	resp := s.runAuction(types.PrecisionE5M2)
	s.Require().True(resp.Success, resp.Error)
	// only slp-us-east-1 supports E5M2
	s.Require().Equal("slp-us-east-1", resp.ProviderId)
	s.Require().Equal(uint64(666), resp.Price)
	s.Require().Equal("route-flash-1", resp.RouteId)
}

func (s *AppTestSuite) TestRESTGatewayShareState() {
	s.Require().True(s.runAuction(types.PrecisionBF16).Success)

	addr, ok := s.app.Addr("api")
	s.Require().True(ok)

	req, err := http.NewRequestWithContext(s.ctx(), http.MethodGet, "http://"+addr.String()+"/gcam/v1/stats", nil)
	s.Require().NoError(err)
	httpResp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer httpResp.Body.Close()
	s.Require().Equal(http.StatusOK, httpResp.StatusCode)

	var stats types.GetAuctionStatsResponse
	s.Require().NoError(json.NewDecoder(httpResp.Body).Decode(&stats))
	s.Require().Equal(uint64(1), stats.TotalAuctions)
	s.Require().Equal(uint64(1), stats.TotalMatches)
}

func (s *AppTestSuite) TestStateSurvivesRestart() {
	first := s.runAuction(types.PrecisionBF16)
	s.Require().True(first.Success)
	s.Require().True(s.runAuction(types.PrecisionINT8).Success)

	before := s.app.Keeper().GetStats()
	providers := s.app.Keeper().GetProviders()

	s.stopApp()
	s.startApp()

	s.Require().Equal(before, s.app.Keeper().GetStats())
	s.Require().Equal(providers, s.app.Keeper().GetProviders())
	s.Require().NotZero(s.app.Store().Generation())
}

func (s *AppTestSuite) TestCloseIsIdempotent() {
	s.Require().NoError(s.app.Close())
	s.Require().NoError(s.app.Close())
	s.Require().Error(s.app.Start())
	s.app = nil
}

func TestRunStopsOnContextCancel(t *testing.T) {
	home := t.TempDir()
	app, err := NewGCAMApp(testConfig(t, home), log.NewNopLogger(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	require.Eventually(t, func() bool {
		_, ok := app.Addr("grpc")
		return ok
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestStartFailsOnBusyAddress(t *testing.T) {
	first, err := NewGCAMApp(testConfig(t, t.TempDir()), log.NewNopLogger(), nil)
	require.NoError(t, err)
	require.NoError(t, first.Start())
	t.Cleanup(func() { _ = first.Close() })

	addr, ok := first.Addr("grpc")
	require.True(t, ok)

	cfg := testConfig(t, t.TempDir())
	cfg.GRPC.Address = addr.String()
	second, err := NewGCAMApp(cfg, log.NewNopLogger(), nil)
	require.NoError(t, err)
	require.Error(t, second.Start())
	require.NoError(t, second.Close())
}

func TestNewGCAMAppRejectsBadGenesisFile(t *testing.T) {
	cfg := testConfig(t, t.TempDir())
	cfg.Genesis.File = cfg.Home + "/missing.json"

	_, err := NewGCAMApp(cfg, log.NewNopLogger(), nil)
	require.Error(t, err)
}
