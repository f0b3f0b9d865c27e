package validator

import (
	"net/http"
	"testing"

	"evmarket/internal/contract"
	"evmarket/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireBadRequest(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	return he.Message
}

func TestApprovalRequest_RejectNeedsNote(t *testing.T) {
	v := New()

	msg := requireBadRequest(t, v.Validate(&contract.ApprovalRequest{Approved: false, Note: "   "}))
	assert.Equal(t, "Vui lòng nhập lý do từ chối!", msg)

	assert.NoError(t, v.Validate(&contract.ApprovalRequest{Approved: false, Note: "Sai thông tin"}))
	assert.NoError(t, v.Validate(&contract.ApprovalRequest{Approved: true}))
}

func TestCreatePaymentURLRequest(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&contract.CreatePaymentURLRequest{OrderID: 42, TransactionType: "DEPOSIT"}))

	msg := requireBadRequest(t, v.Validate(&contract.CreatePaymentURLRequest{OrderID: 0, TransactionType: "DEPOSIT"}))
	assert.Equal(t, "orderId is required", msg)

	msg = requireBadRequest(t, v.Validate(&contract.CreatePaymentURLRequest{OrderID: -5, TransactionType: "DEPOSIT"}))
	assert.Equal(t, "orderId must be greater than 0", msg)

	msg = requireBadRequest(t, v.Validate(&contract.CreatePaymentURLRequest{OrderID: 1, TransactionType: "CASH"}))
	assert.Contains(t, msg, "transactionType must be one of")
}

func TestListingInput_ProductTypeWithSpace(t *testing.T) {
	v := New()

	ok := usecase.CreateListingInput{Title: "VF8", ProductType: "Car EV", Price: 1}
	assert.NoError(t, v.Validate(&ok))

	bad := ok
	bad.ProductType = "Car"
	msg := requireBadRequest(t, v.Validate(&bad))
	assert.Contains(t, msg, "productType")

	free := ok
	free.Price = 0
	msg = requireBadRequest(t, v.Validate(&free))
	assert.Equal(t, "price must be greater than 0", msg)
}

func TestRegisterInput(t *testing.T) {
	v := New()

	msg := requireBadRequest(t, v.Validate(&usecase.RegisterInput{Email: "nope", Password: "password123"}))
	assert.Equal(t, "email must be a valid email", msg)

	msg = requireBadRequest(t, v.Validate(&usecase.RegisterInput{Email: "a@b.vn", Password: "short"}))
	assert.Equal(t, "password must be at least 8", msg)
}
