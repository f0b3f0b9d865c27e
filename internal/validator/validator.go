package validator

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"evmarket/internal/contract"
	"evmarket/internal/usecase"

	"github.com/go-playground/validator/v10"
)

// 却下理由のルール名
const tagRejectNote = "rejectnote"

// RequestValidator は echo.Validator として登録する入力チェック。
// エラーは usecase.HTTPError(400) で返す。
type RequestValidator struct {
	v *validator.Validate
}

func New() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	//エラーのフィールド名はJSONの名前にする
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	v.RegisterStructValidation(approvalRule, contract.ApprovalRequest{})

	return &RequestValidator{v: v}
}

// approved=false のときnote必須（空白のみも不可）
func approvalRule(sl validator.StructLevel) {
	req, ok := sl.Current().Interface().(contract.ApprovalRequest)
	if !ok {
		return
	}
	if !req.Approved && strings.TrimSpace(req.Note) == "" {
		sl.ReportError(req.Note, "note", "Note", tagRejectNote, "")
	}
}

func (rv *RequestValidator) Validate(i interface{}) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return usecase.NewHTTPError(http.StatusBadRequest, "invalid input")
	}
	return usecase.NewHTTPError(http.StatusBadRequest, message(verrs[0]))
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case tagRejectNote:
		return contract.MsgRejectionNoteRequired
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
