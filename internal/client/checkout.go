package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"evmarket/internal/contract"
	"evmarket/internal/domain/lifecycle"
	"evmarket/internal/domain/model"

	"github.com/cenkalti/backoff/v5"
)

var (
	// 戻ってきたが取引コードがどこにもない（呼び出し側はホームへ戻す）
	ErrNavigationLost = errors.New("no pending transaction to resume")
	// 同じCheckoutでStartが実行中
	ErrCheckoutInFlight = errors.New("checkout already in progress")
)

var errStillPending = errors.New("payment still pending")

// Checkout は購入者の決済フロー（URL発行 → ゲートウェイ → 結果確認）。
type Checkout struct {
	client   *Client
	store    PendingStore
	inFlight atomic.Bool

	pollInitial    time.Duration
	pollMaxElapsed time.Duration
}

type CheckoutOption func(*Checkout)

// WithPolling はpendingの間の再確認間隔と最大待ち時間。
func WithPolling(initial, maxElapsed time.Duration) CheckoutOption {
	return func(k *Checkout) {
		k.pollInitial = initial
		k.pollMaxElapsed = maxElapsed
	}
}

func NewCheckout(c *Client, store PendingStore, opts ...CheckoutOption) *Checkout {
	k := &Checkout{
		client:         c,
		store:          store,
		pollInitial:    500 * time.Millisecond,
		pollMaxElapsed: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// 商品種別で支払い種別が決まる（車は手付金から、バッテリーは全額）
func TransactionTypeFor(productType string) (model.TransactionType, error) {
	pt, ok := model.ParseProductType(strings.TrimSpace(productType))
	if !ok {
		return "", fmt.Errorf("unknown product type %q", productType)
	}
	return lifecycle.CheckoutTransactionType(pt), nil
}

// Start は決済URLを発行し、取引コードを保存してから返す。
// 呼び出し側は PaymentURL へ遷移する。
func (k *Checkout) Start(ctx context.Context, orderID int64, productType string) (contract.CreatePaymentURLResponse, error) {
	if !k.inFlight.CompareAndSwap(false, true) {
		return contract.CreatePaymentURLResponse{}, ErrCheckoutInFlight
	}
	defer k.inFlight.Store(false)

	typ, err := TransactionTypeFor(productType)
	if err != nil {
		return contract.CreatePaymentURLResponse{}, err
	}
	return k.start(ctx, orderID, typ)
}

// StartPackage はパッケージ購入（orderId = 購入ID）の決済。
func (k *Checkout) StartPackage(ctx context.Context, userPackageID int64) (contract.CreatePaymentURLResponse, error) {
	if !k.inFlight.CompareAndSwap(false, true) {
		return contract.CreatePaymentURLResponse{}, ErrCheckoutInFlight
	}
	defer k.inFlight.Store(false)

	return k.start(ctx, userPackageID, model.TransactionTypePackagePurchase)
}

func (k *Checkout) start(ctx context.Context, id int64, typ model.TransactionType) (contract.CreatePaymentURLResponse, error) {
	out, err := k.client.CreatePaymentURL(ctx, id, string(typ))
	if err != nil {
		return contract.CreatePaymentURLResponse{}, err
	}
	if err := k.store.Save(Pending{TransactionCode: out.TransactionCode, OrderID: id}); err != nil {
		return contract.CreatePaymentURLResponse{}, err
	}
	return out, nil
}

// Result は戻り先URLのクエリから結果を確認する。
// コードがクエリになければ保存分を使う。保存分は最初の確認のあとで必ず消す。
// pendingの間はバックオフしながら確認を続ける。
func (k *Checkout) Result(ctx context.Context, query url.Values) (contract.TransactionStatusResponse, error) {
	code := strings.TrimSpace(query.Get("transactionCode"))
	continuation := query.Get("continuation")

	if code == "" {
		p, ok, err := k.store.Load()
		if err != nil {
			return contract.TransactionStatusResponse{}, err
		}
		if !ok {
			return contract.TransactionStatusResponse{}, ErrNavigationLost
		}
		code = p.TransactionCode
	}

	first, err := k.client.TransactionStatus(ctx, code, continuation)
	clearErr := k.store.Clear()
	if err != nil {
		return contract.TransactionStatusResponse{}, err
	}
	if clearErr != nil {
		return contract.TransactionStatusResponse{}, clearErr
	}
	if first.Status != contract.StatusPending {
		return first, nil
	}

	return k.poll(ctx, code, first)
}

func (k *Checkout) poll(ctx context.Context, code string, last contract.TransactionStatusResponse) (contract.TransactionStatusResponse, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = k.pollInitial

	//continuationは使用済みなので付けない
	_, err := backoff.Retry(ctx, func() (contract.TransactionStatusResponse, error) {
		res, err := k.client.TransactionStatus(ctx, code, "")
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
				return res, backoff.Permanent(err)
			}
			return res, err
		}
		last = res
		if res.Status == contract.StatusPending {
			return res, errStillPending
		}
		return res, nil
	}, backoff.WithBackOff(b), backoff.WithMaxElapsedTime(k.pollMaxElapsed))

	//待ちきれなかったときはpendingのまま返す
	if errors.Is(err, errStillPending) {
		return last, nil
	}
	if err != nil {
		return contract.TransactionStatusResponse{}, err
	}
	return last, nil
}
