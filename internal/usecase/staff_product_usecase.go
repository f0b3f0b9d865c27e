package usecase

import (
	"context"
	"net/http"
	"strings"

	"evmarket/internal/contract"
	"evmarket/internal/domain/event"
	"evmarket/internal/domain/lifecycle"
	"evmarket/internal/domain/model"
	repo "evmarket/internal/repository"
)

// 出品の審査（仮承認・検査結果入力）
type StaffProductUsecase struct {
	tx       repo.TransactionManager
	products repo.ProductRepository
	pub      event.Publisher
	clock    Clock
}

// DI
func NewStaffProductUsecase(tx repo.TransactionManager, products repo.ProductRepository, pub event.Publisher, clock Clock) *StaffProductUsecase {
	return &StaffProductUsecase{tx: tx, products: products, pub: pub, clock: clock}
}

func (u *StaffProductUsecase) ListByStatus(ctx context.Context, status string, page, limit int) (contract.Page[contract.ProductView], error) {
	st, ok := model.ParseProductStatus(strings.TrimSpace(status))
	if !ok {
		return contract.Page[contract.ProductView]{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	items, total, err := u.products.List(ctx, repo.ProductListQuery{Page: page, Limit: limit, Status: string(st)})
	if err != nil {
		return contract.Page[contract.ProductView]{}, errDB
	}
	return pageOf(toProductViews(items), total, page, limit), nil
}

// 仮承認（CHO_DUYET -> CHO_KIEM_DUYET / BI_TU_CHOI）
func (u *StaffProductUsecase) ApprovePreliminary(ctx context.Context, actor Actor, productID int64, in contract.ApprovalRequest) (contract.ProductView, error) {
	ev := lifecycle.ProductPreliminaryApprove
	if !in.Approved {
		ev = lifecycle.ProductPreliminaryReject
	}
	return u.decide(ctx, actor, productID, in, ev)
}

// 検査結果（CHO_KIEM_DUYET -> DA_DUYET(倉庫入り) / KHONG_DAT_KIEM_DINH）
func (u *StaffProductUsecase) InputInspection(ctx context.Context, actor Actor, productID int64, in contract.ApprovalRequest) (contract.ProductView, error) {
	ev := lifecycle.ProductInspectionPass
	if !in.Approved {
		ev = lifecycle.ProductInspectionFail
	}
	return u.decide(ctx, actor, productID, in, ev)
}

func (u *StaffProductUsecase) decide(ctx context.Context, actor Actor, productID int64, in contract.ApprovalRequest, ev lifecycle.ProductEvent) (contract.ProductView, error) {
	if !actor.valid() {
		return contract.ProductView{}, errUnauthorized
	}
	if !actor.IsStaff() {
		return contract.ProductView{}, errForbidden
	}
	note := strings.TrimSpace(in.Note)
	if !in.Approved && note == "" {
		return contract.ProductView{}, NewHTTPError(http.StatusBadRequest, contract.MsgRejectionNoteRequired)
	}
	if productID <= 0 {
		return contract.ProductView{}, errInvalidID
	}
	//承認時のnoteは却下理由として残さない
	if in.Approved {
		note = ""
	}

	now := u.clock.Now()
	var (
		updated model.Product
		changed event.Event
	)
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		updated, changed, err = transitionProduct(ctx, r, actor.UserID, productID, ev, note, now)
		return err
	})
	if err != nil {
		return contract.ProductView{}, toHTTPError(err, "product not found")
	}

	publishAll(ctx, u.pub, changed)
	return toProductView(updated), nil
}
