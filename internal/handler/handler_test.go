package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"evmarket/internal/config"
	"evmarket/internal/contract"
	"evmarket/internal/domain/model"
	"evmarket/internal/handler"
	"evmarket/internal/infra/cache"
	"evmarket/internal/infra/events"
	infrarepo "evmarket/internal/infra/repository"
	repo "evmarket/internal/repository"
	"evmarket/internal/server"
	"evmarket/internal/testutil"
	"evmarket/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const secret = "handler-secret"

type testAPI struct {
	e        *echo.Echo
	users    repo.UserRepository
	products repo.ProductRepository
	tokens   map[model.Role]string
	ids      map[model.Role]int64
}

func newAPI(t *testing.T) *testAPI {
	t.Helper()
	db := testutil.NewDB(t)

	users := infrarepo.NewUserGormRepository(db)
	orders := infrarepo.NewOrderGormRepository(db)
	products := infrarepo.NewProductGormRepository(db)
	txRepo := infrarepo.NewTransactionGormRepository(db)
	packages := infrarepo.NewPackageGormRepository(db)
	userPackages := infrarepo.NewUserPackageGormRepository(db)
	audit := infrarepo.NewAuditLogGormRepository(db)
	txm := infrarepo.NewTxManagerGorm(db)

	clock := usecase.SystemClock{}
	idGen := usecase.UUIDGenerator{}
	pub := events.NewLogPublisher(zap.NewNop())
	cont := usecase.NewContinuationTokens(secret, cache.NewMemoryContinuationStore(), idGen, clock)

	cfg := config.Config{
		JWTSecret:      secret,
		PublicBaseURL:  "http://api.test",
		FEURL:          "http://fe.test",
		PaymentSandbox: true,
	}
	paymentUC := usecase.NewPaymentUsecase(txm, txRepo, cont, pub, idGen, clock, usecase.PaymentConfig{
		PublicBaseURL: cfg.PublicBaseURL,
		FEURL:         cfg.FEURL,
		Sandbox:       true,
	})
	listingUC := usecase.NewListingUsecase(txm, products, clock)
	packageUC := usecase.NewPackageUsecase(txm, packages, userPackages, audit, clock)
	authn := handler.NewAuthn(secret, users)

	e := server.New(cfg, zap.NewNop(),
		handler.NewAuthHandler(usecase.NewAuthUsecase(users, usecase.NewJWTIssuer(secret), clock), authn),
		handler.NewCatalogHandler(listingUC, packageUC),
		handler.NewOrderHandler(usecase.NewOrderUsecase(txm, orders, products, pub, clock), authn),
		handler.NewSellerHandler(listingUC, packageUC, authn),
		handler.NewPaymentHandler(paymentUC, authn, nil),
		handler.NewStaffHandler(
			usecase.NewStaffOrderUsecase(txm, orders, pub, clock),
			usecase.NewStaffProductUsecase(txm, products, pub, clock),
			authn,
		),
		handler.NewManagerHandler(packageUC, usecase.NewWarehouseUsecase(txm, products, pub, clock), paymentUC, authn),
		handler.NewAdminHandler(usecase.NewAdminUserUsecase(users, audit, clock), authn),
	)

	api := &testAPI{
		e:        e,
		users:    users,
		products: products,
		tokens:   map[model.Role]string{},
		ids:      map[model.Role]int64{},
	}

	issuer := usecase.NewJWTIssuer(secret)
	for _, role := range []model.Role{model.RoleMember, model.RoleStaff, model.RoleManager, model.RoleAdmin} {
		u, err := users.Create(context.Background(), model.User{
			Email:        string(role) + "@example.com",
			PasswordHash: "x",
			Role:         role,
			IsActive:     true,
		})
		require.NoError(t, err)
		tok, _, err := issuer.Issue(u, time.Now())
		require.NoError(t, err)
		api.tokens[role] = tok
		api.ids[role] = u.ID
	}
	return api
}

func (a *testAPI) do(t *testing.T, method, target string, role model.Role, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if role != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+a.tokens[role])
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

// 別の出品者の販売中商品
func (a *testAPI) seedOnSale(t *testing.T, typ model.ProductType, price int64) model.Product {
	t.Helper()
	seller, err := a.users.Create(context.Background(), model.User{
		Email: "seller-" + time.Now().Format("150405.000000000") + "@example.com", PasswordHash: "x", Role: model.RoleMember, IsActive: true,
	})
	require.NoError(t, err)
	p, err := a.products.Create(context.Background(), model.Product{
		SellerID: seller.ID,
		Title:    "VinFast VF8",
		Type:     typ,
		Price:    price,
		Status:   model.ProductStatusOnSale,
	})
	require.NoError(t, err)
	return p
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type envelope[T any] struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func TestHealth(t *testing.T) {
	a := newAPI(t)
	rec := a.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	a := newAPI(t)

	cases := []struct {
		name   string
		method string
		path   string
		role   model.Role
		want   int
	}{
		{"no token", http.MethodGet, "/api/orders/mine", "", http.StatusUnauthorized},
		{"member on staff api", http.MethodGet, "/api/staff/orders", model.RoleMember, http.StatusForbidden},
		{"staff on manager api", http.MethodGet, "/api/manager/warehouse", model.RoleStaff, http.StatusForbidden},
		{"manager on admin api", http.MethodGet, "/api/admin/users", model.RoleManager, http.StatusForbidden},
		{"staff ok", http.MethodGet, "/api/staff/orders", model.RoleStaff, http.StatusOK},
		{"admin on manager api", http.MethodGet, "/api/manager/transactions", model.RoleAdmin, http.StatusOK},
		{"public catalogue", http.MethodGet, "/api/products", "", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := a.do(t, tc.method, tc.path, tc.role, nil)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
		})
	}
}

func TestApproveOrder_RejectWithoutNote(t *testing.T) {
	a := newAPI(t)

	for _, note := range []string{"", "   "} {
		rec := a.do(t, http.MethodPost, "/api/staff/orders/1/approve", model.RoleStaff,
			contract.ApprovalRequest{Approved: false, Note: note})

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, contract.MsgRejectionNoteRequired, decode[contract.ErrorResponse](t, rec).Error)
	}
}

func TestApproveOrder_InvalidID(t *testing.T) {
	a := newAPI(t)
	rec := a.do(t, http.MethodPost, "/api/staff/orders/abc/approve", model.RoleStaff, contract.ApprovalRequest{Approved: true})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// 注文 → 承認 → 手付金URL → mock決済 → 状態確認（continuationは1回だけ）
func TestPaymentRoundTrip(t *testing.T) {
	a := newAPI(t)
	p := a.seedOnSale(t, model.ProductTypeCar, 850_000_000)

	rec := a.do(t, http.MethodPost, "/api/orders", model.RoleMember, usecase.PlaceOrderInput{
		ProductID:       p.ID,
		ShippingAddress: "Ha Noi",
		PaymentMethod:   "BANK",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	placed := decode[envelope[contract.OrderView]](t, rec)
	assert.Equal(t, contract.MsgOrderProcessed, placed.Message)
	assert.Equal(t, string(model.OrderStatusPendingApproval), placed.Data.Status)

	//承認前は支払えない
	rec = a.do(t, http.MethodPost, "/api/payment/create-payment-url", model.RoleMember, contract.CreatePaymentURLRequest{
		OrderID: placed.Data.ID, TransactionType: "DEPOSIT",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = a.do(t, http.MethodPost, "/api/staff/orders/"+itoa(placed.Data.ID)+"/approve", model.RoleStaff,
		contract.ApprovalRequest{Approved: true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	approved := decode[envelope[contract.OrderView]](t, rec)
	assert.Equal(t, contract.StatusSuccess, approved.Status)
	assert.Equal(t, contract.MsgOrderProcessed, approved.Message)
	assert.Equal(t, string(model.OrderStatusAwaitingPayment), approved.Data.Status)

	rec = a.do(t, http.MethodPost, "/api/payment/create-payment-url", model.RoleMember, contract.CreatePaymentURLRequest{
		OrderID: placed.Data.ID, TransactionType: "DEPOSIT",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decode[contract.CreatePaymentURLResponse](t, rec)
	require.NotEmpty(t, created.TransactionCode)

	payURL, err := url.Parse(created.PaymentURL)
	require.NoError(t, err)
	assert.Equal(t, "85000000", payURL.Query().Get("amount"))

	rec = a.do(t, http.MethodGet, payURL.RequestURI(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	paid := decode[contract.MockPaymentResponse](t, rec)
	assert.Equal(t, contract.StatusSuccess, paid.Status)

	ret, err := url.Parse(paid.ReturnURL)
	require.NoError(t, err)
	assert.Equal(t, created.TransactionCode, ret.Query().Get("transactionCode"))
	continuation := ret.Query().Get("continuation")
	require.NotEmpty(t, continuation)

	statusPath := "/api/payment/transaction-status/" + created.TransactionCode + "?continuation=" + url.QueryEscape(continuation)
	rec = a.do(t, http.MethodGet, statusPath, model.RoleMember, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	st := decode[contract.TransactionStatusResponse](t, rec)
	assert.Equal(t, contract.StatusSuccess, st.Status)
	require.NotNil(t, st.Transaction)
	assert.Equal(t, int64(85_000_000), st.Transaction.Amount)
	assert.NotNil(t, st.Transaction.PaymentDate)

	//同じcontinuationは使えない
	rec = a.do(t, http.MethodGet, statusPath, model.RoleMember, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, contract.StatusError, decode[map[string]string](t, rec)["status"])

	//注文は手付金済み
	rec = a.do(t, http.MethodGet, "/api/orders/"+itoa(placed.Data.ID), model.RoleMember, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(model.OrderStatusDepositPaid), decode[contract.OrderView](t, rec).Status)
}

func TestTransactionStatus_Unknown(t *testing.T) {
	a := newAPI(t)

	rec := a.do(t, http.MethodGet, "/api/payment/transaction-status/NOPE", model.RoleMember, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, contract.StatusError, decode[map[string]string](t, rec)["status"])
}

func TestCreatePaymentURL_Validation(t *testing.T) {
	a := newAPI(t)

	cases := []struct {
		name string
		body interface{}
	}{
		{"missing order", map[string]interface{}{"transactionType": "DEPOSIT"}},
		{"bad type", map[string]interface{}{"orderId": 1, "transactionType": "REFUND"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := a.do(t, http.MethodPost, "/api/payment/create-payment-url", model.RoleMember, tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestMockPayment_BadQuery(t *testing.T) {
	a := newAPI(t)
	rec := a.do(t, http.MethodGet, "/api/payment/mock-payment?amount=abc&orderId=1&transactionCode=X", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductReview_RejectNoteKept(t *testing.T) {
	a := newAPI(t)
	p, err := a.products.Create(context.Background(), model.Product{
		SellerID: a.ids[model.RoleMember], Title: "Pin LFP", Type: model.ProductTypeBattery, Price: 40_000_000,
		Status: model.ProductStatusPendingReview,
	})
	require.NoError(t, err)

	rec := a.do(t, http.MethodPost, "/api/staff/products/"+itoa(p.ID)+"/approve-preliminary", model.RoleStaff,
		contract.ApprovalRequest{Approved: false, Note: "ảnh không rõ"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decode[envelope[contract.ProductView]](t, rec)
	assert.Equal(t, contract.MsgProductProcessed, out.Message)
	assert.Equal(t, string(model.ProductStatusRejected), out.Data.Status)
	assert.Equal(t, "ảnh không rõ", out.Data.RejectionNote)

	//却下済みにもう一度は409
	rec = a.do(t, http.MethodPost, "/api/staff/products/"+itoa(p.ID)+"/approve-preliminary", model.RoleStaff,
		contract.ApprovalRequest{Approved: true})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestForceLogout_RevokesToken(t *testing.T) {
	a := newAPI(t)

	rec := a.do(t, http.MethodGet, "/api/auth/me", model.RoleStaff, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodPost, "/api/admin/users/"+itoa(a.ids[model.RoleStaff])+"/force-logout", model.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, decode[usecase.ForceLogoutOutput](t, rec).NewTokenVersion)

	rec = a.do(t, http.MethodGet, "/api/auth/me", model.RoleStaff, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterAndLogin(t *testing.T) {
	a := newAPI(t)

	rec := a.do(t, http.MethodPost, "/api/auth/register", "", usecase.RegisterInput{Email: "new@example.com", Password: "password123"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(t, http.MethodPost, "/api/auth/register", "", usecase.RegisterInput{Email: "new@example.com", Password: "password123"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = a.do(t, http.MethodPost, "/api/auth/register", "", usecase.RegisterInput{Email: "not-an-email", Password: "password123"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, http.MethodPost, "/api/auth/login", "", usecase.LoginInput{Email: "new@example.com", Password: "password123"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := decode[usecase.LoginOutput](t, rec)
	assert.NotEmpty(t, out.Token.AccessToken)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+out.Token.AccessToken)
	me := httptest.NewRecorder()
	a.e.ServeHTTP(me, req)
	require.Equal(t, http.StatusOK, me.Code)
	assert.Equal(t, "new@example.com", decode[model.User](t, me).Email)
}

func TestAuditLogs_BadQuery(t *testing.T) {
	a := newAPI(t)
	rec := a.do(t, http.MethodGet, "/api/admin/audit-logs?from=yesterday", model.RoleAdmin, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, http.MethodGet, "/api/admin/audit-logs?resourceType=order&from=2026-01-01", model.RoleAdmin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
