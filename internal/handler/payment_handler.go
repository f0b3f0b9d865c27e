package handler

import (
	"net/http"
	"strconv"

	"evmarket/internal/contract"
	"evmarket/internal/middleware"
	"evmarket/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /payment 配下
type PaymentHandler struct {
	uc      *usecase.PaymentUsecase
	authn   Authn
	limiter echo.MiddlewareFunc
}

// DI（limiterはnil可）
func NewPaymentHandler(uc *usecase.PaymentUsecase, authn Authn, limiter echo.MiddlewareFunc) *PaymentHandler {
	return &PaymentHandler{uc: uc, authn: authn, limiter: limiter}
}

func (h *PaymentHandler) RegisterRoutes(api *echo.Group) {
	var mws []echo.MiddlewareFunc
	if h.limiter != nil {
		mws = append(mws, h.limiter)
	}
	g := api.Group("/payment", mws...)

	g.POST("/create-payment-url", h.createPaymentURL, h.authn.Require()...)
	g.GET("/transaction-status/:code", h.transactionStatus, h.authn.Require()...)
	//ゲートウェイからのリダイレクトなので認証なし
	g.GET("/mock-payment", h.mockPayment)
}

// POST /payment/create-payment-url
func (h *PaymentHandler) createPaymentURL(c echo.Context) error {
	var req contract.CreatePaymentURLRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.CreatePaymentURL(c.Request().Context(), middleware.ActorFrom(c), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type statusErrorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// GET /payment/transaction-status/:code?continuation=
// エラー時も {status:"error"} で返す。
func (h *PaymentHandler) transactionStatus(c echo.Context) error {
	out, err := h.uc.GetTransactionStatus(
		c.Request().Context(),
		middleware.ActorFrom(c),
		c.Param("code"),
		c.QueryParam("continuation"),
	)
	if err != nil {
		he, ok := usecase.AsHTTPError(err)
		if !ok || he.Status >= http.StatusInternalServerError {
			return writeError(c, err)
		}
		return c.JSON(he.Status, statusErrorResponse{Status: contract.StatusError, Error: he.Message})
	}
	return c.JSON(http.StatusOK, out)
}

// GET /payment/mock-payment?amount=&orderId=&transactionCode=[&redirect=1]
func (h *PaymentHandler) mockPayment(c echo.Context) error {
	amount, err := strconv.ParseInt(c.QueryParam("amount"), 10, 64)
	if err != nil || amount <= 0 {
		return badRequest(c, "invalid amount")
	}
	orderID, err := strconv.ParseInt(c.QueryParam("orderId"), 10, 64)
	if err != nil || orderID <= 0 {
		return badRequest(c, "invalid orderId")
	}

	out, err := h.uc.MockPayment(c.Request().Context(), usecase.MockPaymentInput{
		TransactionCode: c.QueryParam("transactionCode"),
		Amount:          amount,
		OrderID:         orderID,
	})
	if err != nil {
		return writeError(c, err)
	}

	if c.QueryParam("redirect") == "1" {
		return c.Redirect(http.StatusFound, out.ReturnURL)
	}
	return c.JSON(http.StatusOK, out)
}
