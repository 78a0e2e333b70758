package trading

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/riptide-lab/riptide-trading/internal/logger"
	"github.com/riptide-lab/riptide-trading/internal/persistence"
	"github.com/riptide-lab/riptide-trading/internal/types"
)

type ServerTestSuite struct {
	suite.Suite
	engine *Engine
	server *Server
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (suite *ServerTestSuite) SetupTest() {
	cfg := DefaultEngineConfig()

	engine, err := NewEngine(cfg, &fakeProvider{}, NewPaperTransport(nil), persistence.NewMemoryStore(), logger.NewNopLogger())
	suite.Require().NoError(err)

	suite.engine = engine
	suite.server = NewServer(":0", engine, logger.NewNopLogger())
}

func (suite *ServerTestSuite) get(path string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, path, nil)
	suite.server.Handler().ServeHTTP(recorder, request)

	return recorder
}

func (suite *ServerTestSuite) TestHealthz() {
	response := suite.get("/healthz")
	suite.Equal(http.StatusOK, response.Code)

	var body map[string]string
	suite.Require().NoError(json.Unmarshal(response.Body.Bytes(), &body))
	suite.Equal("ok", body["status"])
}

func (suite *ServerTestSuite) TestStatistics() {
	response := suite.get("/api/v1/statistics")
	suite.Equal(http.StatusOK, response.Code)
	suite.Equal("application/json", response.Header().Get("Content-Type"))

	var stats types.TradeStatistics
	suite.Require().NoError(json.Unmarshal(response.Body.Bytes(), &stats))
	suite.Equal(0, stats.TotalTrades)
	suite.Equal(10000.0, stats.CurrentCapital)
}

func (suite *ServerTestSuite) TestPositionsReflectEngineState() {
	response := suite.get("/api/v1/positions")
	suite.Equal(http.StatusOK, response.Code)

	var empty []types.Position
	suite.Require().NoError(json.Unmarshal(response.Body.Bytes(), &empty))
	suite.Empty(empty)

	bar := types.Bar{Symbol: "BTCUSDT", Time: time.Now().UTC(), Close: 45000}
	suite.engine.enter(context.Background(), testSignal(0.9), bar, Callbacks{})

	response = suite.get("/api/v1/positions")

	var positions []types.Position
	suite.Require().NoError(json.Unmarshal(response.Body.Bytes(), &positions))
	suite.Require().Len(positions, 1)
	suite.Equal("BTCUSDT", positions[0].Symbol)
}

func (suite *ServerTestSuite) TestMetricsEndpointExposesGauges() {
	bar := types.Bar{Symbol: "BTCUSDT", Time: time.Now().UTC(), Close: 45000}
	suite.engine.enter(context.Background(), testSignal(0.9), bar, Callbacks{})
	suite.engine.observe()

	response := suite.get("/metrics")
	suite.Equal(http.StatusOK, response.Code)
	suite.Contains(response.Body.String(), "riptide_open_positions 1")
	suite.Contains(response.Body.String(), "riptide_orders_total")
	suite.Contains(response.Body.String(), "riptide_current_capital")
}

func (suite *ServerTestSuite) TestUnknownMethodRejected() {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/api/v1/statistics", nil)
	suite.server.Handler().ServeHTTP(recorder, request)

	suite.Equal(http.StatusMethodNotAllowed, recorder.Code)
}
