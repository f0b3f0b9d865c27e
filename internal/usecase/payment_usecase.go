package usecase

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"evmarket/internal/contract"
	"evmarket/internal/domain/event"
	"evmarket/internal/domain/lifecycle"
	"evmarket/internal/domain/model"
	repo "evmarket/internal/repository"

	"go.uber.org/zap"
)

// PaymentConfig は決済URLの組み立てに使う設定
type PaymentConfig struct {
	PublicBaseURL string
	FEURL         string
	Sandbox       bool
	GatewayURL    string
}

type PaymentUsecase struct {
	tx     repo.TransactionManager
	txRepo repo.TransactionRepository
	tokens *ContinuationTokens
	pub    event.Publisher
	idGen  IDGenerator
	clock  Clock
	cfg    PaymentConfig
}

// DI
func NewPaymentUsecase(
	tx repo.TransactionManager,
	txRepo repo.TransactionRepository,
	tokens *ContinuationTokens,
	pub event.Publisher,
	idGen IDGenerator,
	clock Clock,
	cfg PaymentConfig,
) *PaymentUsecase {
	return &PaymentUsecase{
		tx:     tx,
		txRepo: txRepo,
		tokens: tokens,
		pub:    pub,
		idGen:  idGen,
		clock:  clock,
		cfg:    cfg,
	}
}

// 既にSUCCESSになっていた（同時に確定された）
var errAlreadySettled = errors.New("transaction already settled")

// 決済時点で請求と合わなくなった取引
const (
	msgTransactionStale = "transaction is no longer valid"
	msgProductSold      = "product already sold"
	msgProductNotOnSale = "product is not on sale"
)

// CreatePaymentURL は支払いトランザクションを作り、決済URLを返す。
// 同じ注文・種別のPENDINGがあればそれを再利用する。
func (u *PaymentUsecase) CreatePaymentURL(ctx context.Context, actor Actor, in contract.CreatePaymentURLRequest) (contract.CreatePaymentURLResponse, error) {
	if !actor.valid() {
		return contract.CreatePaymentURLResponse{}, errUnauthorized
	}
	if in.OrderID <= 0 {
		return contract.CreatePaymentURLResponse{}, NewHTTPError(http.StatusBadRequest, "invalid orderId")
	}
	typ, ok := model.ParseTransactionType(strings.TrimSpace(in.TransactionType))
	if !ok {
		return contract.CreatePaymentURLResponse{}, NewHTTPError(http.StatusBadRequest, "invalid transactionType")
	}

	var t model.Transaction
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		amount, err := u.chargeFor(ctx, r, actor, in.OrderID, typ)
		if err != nil {
			return err
		}

		//PENDINGの再利用
		pending, found, err := r.Transactions().FindPending(ctx, in.OrderID, typ)
		if err != nil {
			return err
		}
		if found {
			if pending.Amount == amount {
				t = pending
				return nil
			}
			//金額が変わった（頭金の入金後など）。古いURLでは払わせない。
			if err := r.Transactions().MarkFailed(ctx, pending.Code); err != nil && !errors.Is(err, repo.ErrConflict) {
				return err
			}
		}

		t, err = r.Transactions().Create(ctx, model.Transaction{
			Code:    u.idGen.NewID(),
			OrderID: in.OrderID,
			UserID:  actor.UserID,
			Type:    typ,
			Amount:  amount,
			Status:  model.TransactionStatusPending,
		})
		return err
	})
	if err != nil {
		return contract.CreatePaymentURLResponse{}, toHTTPError(err, "order not found")
	}

	paymentURL, err := u.paymentURL(t)
	if err != nil {
		return contract.CreatePaymentURLResponse{}, err
	}
	return contract.CreatePaymentURLResponse{PaymentURL: paymentURL, TransactionCode: t.Code}, nil
}

// 請求額を決める（注文 or 購入パッケージ）
func (u *PaymentUsecase) chargeFor(ctx context.Context, r repo.TxRepos, actor Actor, id int64, typ model.TransactionType) (int64, error) {
	if typ == model.TransactionTypePackagePurchase {
		up, err := r.UserPackages().FindByID(ctx, id)
		if err != nil {
			return 0, toHTTPError(err, "package purchase not found")
		}
		if up.UserID != actor.UserID {
			return 0, NewHTTPError(http.StatusNotFound, "package purchase not found")
		}
		if up.Status != model.UserPackageStatusAwaitingPayment {
			return 0, NewHTTPError(http.StatusConflict, "package already paid")
		}
		return up.Price, nil
	}

	o, err := r.Orders().FindByID(ctx, id)
	if err != nil {
		return 0, toHTTPError(err, "order not found")
	}
	//他人の注文は見せない
	if o.BuyerID != actor.UserID {
		return 0, NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err := lifecycle.CheckPayable(o, typ); err != nil {
		return 0, toHTTPError(err, "order not found")
	}

	p, err := r.Products().FindByID(ctx, o.ProductID)
	if err != nil {
		return 0, toHTTPError(err, "product not found")
	}
	if p.Status == model.ProductStatusSold {
		return 0, NewHTTPError(http.StatusConflict, msgProductSold)
	}
	//まだ1円も払っていない注文は出品中の商品に限る
	if o.PaidAmount == 0 && p.Status != model.ProductStatusOnSale {
		return 0, NewHTTPError(http.StatusConflict, msgProductNotOnSale)
	}
	return lifecycle.PaymentAmount(o, typ), nil
}

// staleReason は決済時点で取引がまだ有効かを見る。無効なら理由を返す。
func staleReason(ctx context.Context, r repo.TxRepos, t model.Transaction) (string, error) {
	if t.Type == model.TransactionTypePackagePurchase {
		up, err := r.UserPackages().FindByID(ctx, t.OrderID)
		if err != nil {
			return "", toHTTPError(err, "package purchase not found")
		}
		if up.Status != model.UserPackageStatusAwaitingPayment || up.Price != t.Amount {
			return msgTransactionStale, nil
		}
		return "", nil
	}

	o, err := r.Orders().FindByID(ctx, t.OrderID)
	if err != nil {
		return "", toHTTPError(err, "order not found")
	}
	if lifecycle.CheckPayable(o, t.Type) != nil || lifecycle.PaymentAmount(o, t.Type) != t.Amount {
		return msgTransactionStale, nil
	}
	p, err := r.Products().FindByID(ctx, o.ProductID)
	if err != nil {
		return "", toHTTPError(err, "product not found")
	}
	if p.Status == model.ProductStatusSold {
		return msgProductSold, nil
	}
	return "", nil
}

func (u *PaymentUsecase) paymentURL(t model.Transaction) (string, error) {
	q := url.Values{}
	q.Set("transactionCode", t.Code)
	q.Set("amount", strconv.FormatInt(t.Amount, 10))
	q.Set("orderId", strconv.FormatInt(t.OrderID, 10))

	if u.cfg.Sandbox {
		return u.cfg.PublicBaseURL + "/api/payment/mock-payment?" + q.Encode(), nil
	}
	if u.cfg.GatewayURL == "" {
		return "", NewHTTPError(http.StatusServiceUnavailable, "payment gateway not configured")
	}
	q.Set("returnUrl", u.cfg.FEURL+"/payment/result")
	return u.cfg.GatewayURL + "?" + q.Encode(), nil
}

// GetTransactionStatus は取引の状態を返す。continuationがあれば検証して消費する。
func (u *PaymentUsecase) GetTransactionStatus(ctx context.Context, actor Actor, code string, continuation string) (contract.TransactionStatusResponse, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return contract.TransactionStatusResponse{}, NewHTTPError(http.StatusBadRequest, "transactionCode is required")
	}

	if continuation != "" {
		if err := u.tokens.Consume(ctx, continuation, code); err != nil {
			switch {
			case errors.Is(err, ErrContinuationInvalid):
				return contract.TransactionStatusResponse{}, NewHTTPError(http.StatusBadRequest, "invalid continuation token")
			case errors.Is(err, ErrContinuationUsed):
				return contract.TransactionStatusResponse{}, NewHTTPError(http.StatusConflict, "continuation token already used")
			}
			return contract.TransactionStatusResponse{}, NewHTTPError(http.StatusInternalServerError, "continuation store error")
		}
	}

	t, err := u.txRepo.FindByCode(ctx, code)
	if err != nil {
		return contract.TransactionStatusResponse{}, toHTTPError(err, "transaction not found")
	}
	if actor.valid() && !actor.IsStaff() && t.UserID != actor.UserID {
		return contract.TransactionStatusResponse{}, NewHTTPError(http.StatusNotFound, "transaction not found")
	}

	view := toTransactionView(t)
	return contract.TransactionStatusResponse{Status: resultStatus(t.Status), Transaction: &view}, nil
}

type MockPaymentInput struct {
	TransactionCode string
	Amount          int64
	OrderID         int64
}

// MockPayment はsandboxのゲートウェイ。取引をSUCCESSにして注文/パッケージを進める。
func (u *PaymentUsecase) MockPayment(ctx context.Context, in MockPaymentInput) (contract.MockPaymentResponse, error) {
	if !u.cfg.Sandbox {
		return contract.MockPaymentResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	code := strings.TrimSpace(in.TransactionCode)
	if code == "" {
		return contract.MockPaymentResponse{}, NewHTTPError(http.StatusBadRequest, "transactionCode is required")
	}

	now := u.clock.Now()
	var (
		settled model.Transaction
		events  []event.Event
		stale   string
	)

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		events = nil
		stale = ""

		t, err := r.Transactions().FindByCode(ctx, code)
		if err != nil {
			return toHTTPError(err, "transaction not found")
		}
		if t.Amount != in.Amount || t.OrderID != in.OrderID {
			return NewHTTPError(http.StatusBadRequest, "amount mismatch")
		}

		switch t.Status {
		case model.TransactionStatusSuccess:
			//2回目以降は何もしない
			settled = t
			return nil
		case model.TransactionStatusFailed:
			return NewHTTPError(http.StatusConflict, "transaction failed")
		}

		reason, err := staleReason(ctx, r, t)
		if err != nil {
			return err
		}
		if reason != "" {
			//FAILEDはコミットしてから409を返す
			if err := r.Transactions().MarkFailed(ctx, code); err != nil {
				if errors.Is(err, repo.ErrConflict) {
					return errAlreadySettled
				}
				return err
			}
			stale = reason
			return writeAudit(ctx, r.AuditLogs(), now, 0, model.AuditActionConfirmPayment, model.AuditResourceTransaction, t.ID,
				statusChange{Status: string(model.TransactionStatusPending)},
				statusChange{Status: string(model.TransactionStatusFailed)}, reason)
		}

		if err := r.Transactions().MarkSucceeded(ctx, code, now); err != nil {
			if errors.Is(err, repo.ErrConflict) {
				return errAlreadySettled
			}
			return err
		}
		t.Status = model.TransactionStatusSuccess
		t.PaymentDate = &now
		settled = t

		if err := writeAudit(ctx, r.AuditLogs(), now, 0, model.AuditActionConfirmPayment, model.AuditResourceTransaction, t.ID,
			statusChange{Status: string(model.TransactionStatusPending)},
			statusChange{Status: string(model.TransactionStatusSuccess)}, ""); err != nil {
			return err
		}

		events = append(events, event.Event{
			Type:        event.TypePaymentSucceeded,
			ResourceID:  t.OrderID,
			Transaction: t.Code,
			Amount:      t.Amount,
			OccurredAt:  now,
		})

		if t.Type == model.TransactionTypePackagePurchase {
			ev, err := activatePackage(ctx, r, t, now)
			if err != nil {
				return err
			}
			events = append(events, ev)
			return nil
		}

		evs, err := applyOrderPayment(ctx, r, t, now)
		if err != nil {
			return err
		}
		events = append(events, evs...)
		return nil
	})

	if errors.Is(err, errAlreadySettled) {
		t, ferr := u.txRepo.FindByCode(ctx, code)
		if ferr != nil {
			return contract.MockPaymentResponse{}, toHTTPError(ferr, "transaction not found")
		}
		settled, err = t, nil
	}
	if err != nil {
		return contract.MockPaymentResponse{}, toHTTPError(err, "not found")
	}
	if stale != "" {
		zap.L().Warn("stale transaction refused", zap.String("transaction", code), zap.String("reason", stale))
		return contract.MockPaymentResponse{}, NewHTTPError(http.StatusConflict, stale)
	}

	publishAll(ctx, u.pub, events...)

	returnURL, err := u.returnURL(ctx, settled.Code)
	if err != nil {
		zap.L().Error("issue continuation token", zap.String("transaction", settled.Code), zap.Error(err))
		return contract.MockPaymentResponse{}, NewHTTPError(http.StatusInternalServerError, "continuation store error")
	}

	return contract.MockPaymentResponse{
		Status:      resultStatus(settled.Status),
		Transaction: toTransactionView(settled),
		ReturnURL:   returnURL,
	}, nil
}

func (u *PaymentUsecase) returnURL(ctx context.Context, code string) (string, error) {
	token, err := u.tokens.Issue(ctx, code)
	if err != nil {
		return "", err
	}
	q := url.Values{}
	q.Set("transactionCode", code)
	q.Set("continuation", token)
	return u.cfg.FEURL + "/payment/result?" + q.Encode(), nil
}

// 購入パッケージを有効化（枠と期限を設定）
func activatePackage(ctx context.Context, r repo.TxRepos, t model.Transaction, now time.Time) (event.Event, error) {
	up, err := r.UserPackages().FindByID(ctx, t.OrderID)
	if err != nil {
		return event.Event{}, toHTTPError(err, "package purchase not found")
	}
	expires := now.AddDate(0, 0, up.DurationDays)
	if err := r.UserPackages().Activate(ctx, up.ID, now, expires); err != nil {
		return event.Event{}, err
	}
	if err := writeAudit(ctx, r.AuditLogs(), now, 0, model.AuditActionUpdatePackage, model.AuditResourcePackage, up.ID,
		statusChange{Status: string(up.Status)},
		statusChange{Status: string(model.UserPackageStatusActive)}, ""); err != nil {
		return event.Event{}, err
	}
	return event.Event{
		Type:        event.TypePackageActivated,
		ResourceID:  up.ID,
		From:        string(up.Status),
		To:          string(model.UserPackageStatusActive),
		ActorUserID: up.UserID,
		Transaction: t.Code,
		OccurredAt:  now,
	}, nil
}

// 支払いを注文に反映する。全額支払いなら商品をDA_BANにする。
func applyOrderPayment(ctx context.Context, r repo.TxRepos, t model.Transaction, now time.Time) ([]event.Event, error) {
	o, err := r.Orders().FindByID(ctx, t.OrderID)
	if err != nil {
		return nil, toHTTPError(err, "order not found")
	}

	ev := lifecycle.PaymentEvent(t.Type)
	next, err := lifecycle.Order.Next(o.Status, ev)
	if err != nil {
		return nil, err
	}

	prev := o.Status
	if t.Type == model.TransactionTypeDeposit {
		o.DepositAmount = t.Amount
	}
	o.PaidAmount += t.Amount
	o.Status = next
	if err := r.Orders().UpdateIfStatus(ctx, o, prev); err != nil {
		return nil, err
	}
	if err := writeAudit(ctx, r.AuditLogs(), now, 0, model.AuditActionUpdateOrderStatus, model.AuditResourceOrder, o.ID,
		statusChange{Status: string(prev)},
		statusChange{Status: string(next), Event: string(ev)}, ""); err != nil {
		return nil, err
	}

	events := []event.Event{{
		Type:        event.TypeOrderStatusChanged,
		ResourceID:  o.ID,
		From:        string(prev),
		To:          string(next),
		Transaction: t.Code,
		OccurredAt:  now,
	}}

	if next != model.OrderStatusPaid {
		return events, nil
	}

	p, err := r.Products().FindByID(ctx, o.ProductID)
	if err != nil {
		return nil, toHTTPError(err, "product not found")
	}
	sold, err := lifecycle.Product.Next(p.Status, lifecycle.ProductSell)
	if err != nil {
		//出品が取り下げ済みなど。支払いは確定させる。
		zap.L().Warn("product not sellable after full payment",
			zap.Int64("order_id", o.ID), zap.Int64("product_id", p.ID), zap.String("status", string(p.Status)))
		return events, nil
	}
	pPrev := p.Status
	p.Status = sold
	if flag := lifecycle.WarehouseFlagAfter(lifecycle.ProductSell); flag != nil {
		p.InWarehouse = *flag
	}
	if err := r.Products().UpdateIfStatus(ctx, p, pPrev); err != nil {
		return nil, err
	}
	if err := writeAudit(ctx, r.AuditLogs(), now, 0, model.AuditActionUpdateProductStatus, model.AuditResourceProduct, p.ID,
		statusChange{Status: string(pPrev)},
		statusChange{Status: string(sold), Event: string(lifecycle.ProductSell), InWarehouse: &p.InWarehouse}, ""); err != nil {
		return nil, err
	}
	return append(events, event.Event{
		Type:       event.TypeProductStatusChanged,
		ResourceID: p.ID,
		From:       string(pPrev),
		To:         string(sold),
		OccurredAt: now,
	}), nil
}

// ListTransactions は管理者向けの取引一覧
func (u *PaymentUsecase) ListTransactions(ctx context.Context, f repo.TransactionListFilter) (contract.Page[contract.TransactionView], error) {
	if f.Status != "" {
		switch model.TransactionStatus(f.Status) {
		case model.TransactionStatusPending, model.TransactionStatusSuccess, model.TransactionStatusFailed:
		default:
			return contract.Page[contract.TransactionView]{}, NewHTTPError(http.StatusBadRequest, "invalid status")
		}
	}
	if f.Type != "" {
		if _, ok := model.ParseTransactionType(f.Type); !ok {
			return contract.Page[contract.TransactionView]{}, NewHTTPError(http.StatusBadRequest, "invalid type")
		}
	}

	items, total, err := u.txRepo.List(ctx, f)
	if err != nil {
		return contract.Page[contract.TransactionView]{}, errDB
	}
	views := make([]contract.TransactionView, 0, len(items))
	for _, t := range items {
		views = append(views, toTransactionView(t))
	}
	return pageOf(views, total, f.Page, f.Limit), nil
}
