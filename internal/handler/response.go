package handler

import (
	"net/http"
	"strconv"

	"evmarket/internal/contract"
	"evmarket/internal/usecase"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// usecaseのエラーを {"error": msg} で返す。5xxはログとSentryへ。
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		if he.Status >= http.StatusInternalServerError {
			report(c, err)
		}
		return c.JSON(he.Status, contract.ErrorResponse{Error: he.Message})
	}

	//500
	report(c, err)
	return c.JSON(http.StatusInternalServerError, contract.ErrorResponse{Error: "internal error"})
}

func report(c echo.Context, err error) {
	zap.L().Error("request failed",
		zap.String("method", c.Request().Method),
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	sentry.CaptureException(err)
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, contract.ErrorResponse{Error: msg})
}

// bind + validate（失敗は400のHTTPError）
func bind(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return usecase.NewHTTPError(http.StatusBadRequest, "invalid json")
	}
	return c.Validate(dst)
}

// :id などのパスパラメータ（正の整数）
func pathID(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// page / limit（未指定は0 => repository側でデフォルト）
func pageParams(c echo.Context) (int, int, error) {
	page, err := queryInt(c, "page")
	if err != nil {
		return 0, 0, err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}

func queryInt(c echo.Context, key string) (int, error) {
	v := c.QueryParam(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, usecase.NewHTTPError(http.StatusBadRequest, "invalid "+key)
	}
	return n, nil
}

func queryInt64Ptr(c echo.Context, key string) (*int64, error) {
	v := c.QueryParam(key)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, usecase.NewHTTPError(http.StatusBadRequest, "invalid "+key)
	}
	return &n, nil
}
