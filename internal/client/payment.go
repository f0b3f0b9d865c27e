package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"evmarket/internal/contract"
)

// paymentUrl / transactionCode のどちらかが空
var ErrEmptyPaymentURL = errors.New("payment url or transaction code is empty")

// CreatePaymentURL は決済URLを発行する。空の値が返ったら失敗扱い。
func (c *Client) CreatePaymentURL(ctx context.Context, orderID int64, transactionType string) (contract.CreatePaymentURLResponse, error) {
	var out contract.CreatePaymentURLResponse
	err := c.do(ctx, http.MethodPost, "/api/payment/create-payment-url", contract.CreatePaymentURLRequest{
		OrderID:         orderID,
		TransactionType: transactionType,
	}, &out)
	if err != nil {
		return contract.CreatePaymentURLResponse{}, err
	}
	if strings.TrimSpace(out.PaymentURL) == "" || strings.TrimSpace(out.TransactionCode) == "" {
		return contract.CreatePaymentURLResponse{}, ErrEmptyPaymentURL
	}
	return out, nil
}

// TransactionStatus は取引の状態。continuationは戻り先URLのもの（1回だけ有効）。
func (c *Client) TransactionStatus(ctx context.Context, code, continuation string) (contract.TransactionStatusResponse, error) {
	path := "/api/payment/transaction-status/" + url.PathEscape(code)
	if continuation != "" {
		path += "?continuation=" + url.QueryEscape(continuation)
	}
	var out contract.TransactionStatusResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return contract.TransactionStatusResponse{}, err
	}
	return out, nil
}

// MockPayment はsandboxのゲートウェイで支払い成功にする。
func (c *Client) MockPayment(ctx context.Context, code string, amount, orderID int64) (contract.MockPaymentResponse, error) {
	q := url.Values{}
	q.Set("transactionCode", code)
	q.Set("amount", strconv.FormatInt(amount, 10))
	q.Set("orderId", strconv.FormatInt(orderID, 10))

	var out contract.MockPaymentResponse
	if err := c.do(ctx, http.MethodGet, "/api/payment/mock-payment?"+q.Encode(), nil, &out); err != nil {
		return contract.MockPaymentResponse{}, err
	}
	return out, nil
}
