package server_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"evmarket/internal/config"
	"evmarket/internal/server"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type pingRouter struct{}

func (pingRouter) RegisterRoutes(api *echo.Group) {
	api.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })
}

func TestNew_RoutesUnderAPI(t *testing.T) {
	e := server.New(config.Config{FEURL: "http://fe.test"}, zap.NewNop(), pingRouter{})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNew_CORSAllowsFrontend(t *testing.T) {
	e := server.New(config.Config{FEURL: "http://fe.test"}, zap.NewNop(), pingRouter{})

	req := httptest.NewRequest(http.MethodOptions, "/api/ping", nil)
	req.Header.Set(echo.HeaderOrigin, "http://fe.test")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodGet)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "http://fe.test", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}

func TestPaymentRateLimiter(t *testing.T) {
	e := echo.New()
	//burst = 3
	e.GET("/pay", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, server.PaymentRateLimiter(1))

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodGet, "/pay", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	require.Len(t, codes, 4)
	assert.Equal(t, []int{200, 200, 200, http.StatusTooManyRequests}, codes)
}
