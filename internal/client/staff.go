package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"evmarket/internal/contract"
)

// 却下なのに理由が空（通信する前に弾く）
var ErrEmptyRejectionNote = errors.New(contract.MsgRejectionNoteRequired)

// 商品審査の段階
type ReviewStage string

const (
	StagePreliminary ReviewStage = "approve-preliminary"
	StageInspection  ReviewStage = "input-inspection"
)

// スタッフ画面の操作
type StaffClient struct {
	c *Client
}

func (c *Client) Staff() *StaffClient {
	return &StaffClient{c: c}
}

type envelope[T any] struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func checkDecision(approved bool, note string) error {
	if !approved && strings.TrimSpace(note) == "" {
		return ErrEmptyRejectionNote
	}
	return nil
}

// OrdersByStatus はステータス別の注文一覧。
func (s *StaffClient) OrdersByStatus(ctx context.Context, status string) (contract.Page[contract.OrderView], error) {
	var out contract.Page[contract.OrderView]
	err := s.c.do(ctx, http.MethodGet, "/api/staff/orders/status/"+url.PathEscape(status), nil, &out)
	return out, err
}

// ProductsByStatus はステータス別の商品一覧。
func (s *StaffClient) ProductsByStatus(ctx context.Context, status string) (contract.Page[contract.ProductView], error) {
	var out contract.Page[contract.ProductView]
	err := s.c.do(ctx, http.MethodGet, "/api/staff/products/status/"+url.PathEscape(status), nil, &out)
	return out, err
}

// DecideOrder は承認/却下してから、listStatusの一覧を取り直して返す。
func (s *StaffClient) DecideOrder(ctx context.Context, orderID int64, approved bool, note, listStatus string) (contract.Page[contract.OrderView], error) {
	if err := checkDecision(approved, note); err != nil {
		return contract.Page[contract.OrderView]{}, err
	}

	var res envelope[json.RawMessage]
	path := fmt.Sprintf("/api/staff/orders/%d/approve", orderID)
	if err := s.c.do(ctx, http.MethodPost, path, contract.ApprovalRequest{Approved: approved, Note: note}, &res); err != nil {
		return contract.Page[contract.OrderView]{}, err
	}
	if res.Status != contract.StatusSuccess {
		return contract.Page[contract.OrderView]{}, &APIError{Status: http.StatusOK, Message: res.Message}
	}
	return s.OrdersByStatus(ctx, listStatus)
}

// DecideProduct は商品審査の結果を送ってから、listStatusの一覧を取り直す。
func (s *StaffClient) DecideProduct(ctx context.Context, stage ReviewStage, productID int64, approved bool, note, listStatus string) (contract.Page[contract.ProductView], error) {
	if err := checkDecision(approved, note); err != nil {
		return contract.Page[contract.ProductView]{}, err
	}

	var res envelope[json.RawMessage]
	path := fmt.Sprintf("/api/staff/products/%d/%s", productID, stage)
	if err := s.c.do(ctx, http.MethodPost, path, contract.ApprovalRequest{Approved: approved, Note: note}, &res); err != nil {
		return contract.Page[contract.ProductView]{}, err
	}
	if res.Status != contract.StatusSuccess {
		return contract.Page[contract.ProductView]{}, &APIError{Status: http.StatusOK, Message: res.Message}
	}
	return s.ProductsByStatus(ctx, listStatus)
}
