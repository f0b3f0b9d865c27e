package usecase

import (
	"errors"
	"fmt"
	"net/http"

	"evmarket/internal/domain/lifecycle"
	repo "evmarket/internal/repository"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// よく使うエラー
var (
	errUnauthorized = NewHTTPError(http.StatusUnauthorized, "unauthorized")
	errForbidden    = NewHTTPError(http.StatusForbidden, "forbidden")
	errInvalidID    = NewHTTPError(http.StatusBadRequest, "invalid id")
	errDB           = NewHTTPError(http.StatusInternalServerError, "db error")
)

// repository/lifecycleのエラーをHTTPErrorにそろえる。
// 既にHTTPErrorならそのまま返す。
func toHTTPError(err error, notFound string) error {
	if err == nil {
		return nil
	}
	if _, ok := AsHTTPError(err); ok {
		return err
	}

	var te *lifecycle.TransitionError
	switch {
	case errors.As(err, &te):
		return NewHTTPError(http.StatusConflict, te.Error())
	case errors.Is(err, repo.ErrNotFound):
		return NewHTTPError(http.StatusNotFound, notFound)
	case errors.Is(err, repo.ErrConflict):
		//同時更新で負けた
		return NewHTTPError(http.StatusConflict, "status changed concurrently")
	case errors.Is(err, repo.ErrDuplicate):
		return NewHTTPError(http.StatusConflict, "already exists")
	case errors.Is(err, lifecycle.ErrNotPayable):
		return NewHTTPError(http.StatusConflict, "order is not payable in its current status")
	case errors.Is(err, lifecycle.ErrPaymentTypeMismatch):
		return NewHTTPError(http.StatusBadRequest, "transaction type not allowed for this product type")
	}
	return errDB
}
