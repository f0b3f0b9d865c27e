package usecase

import (
	"context"
	"net/http"
	"strings"

	"evmarket/internal/contract"
	"evmarket/internal/domain/model"
	repo "evmarket/internal/repository"
	"evmarket/internal/statusview"
)

// 期限切れの表示用ステータス
const userPackageExpired = "EXPIRED"

type PackageInput struct {
	Name         string `json:"name" validate:"required,max=255"`
	Description  string `json:"description" validate:"max=2000"`
	Type         string `json:"type" validate:"required,oneof=CAR BATTERY"`
	Price        int64  `json:"price" validate:"gt=0"`
	DurationDays int    `json:"durationDays" validate:"gt=0,lte=3650"`
	ListingQuota int    `json:"listingQuota" validate:"gt=0"`
	IsActive     *bool  `json:"isActive"`
}

type PackageUsecase struct {
	tx           repo.TransactionManager
	packages     repo.PackageRepository
	userPackages repo.UserPackageRepository
	auditRepo    repo.AuditLogRepository
	clock        Clock
}

// DI
func NewPackageUsecase(
	tx repo.TransactionManager,
	packages repo.PackageRepository,
	userPackages repo.UserPackageRepository,
	auditRepo repo.AuditLogRepository,
	clock Clock,
) *PackageUsecase {
	return &PackageUsecase{
		tx:           tx,
		packages:     packages,
		userPackages: userPackages,
		auditRepo:    auditRepo,
		clock:        clock,
	}
}

func (in PackageInput) toModel() (model.Package, error) {
	typ, ok := model.ParsePackageType(strings.TrimSpace(in.Type))
	if !ok {
		return model.Package{}, NewHTTPError(http.StatusBadRequest, "invalid type")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Package{}, NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if in.Price <= 0 || in.DurationDays <= 0 || in.ListingQuota <= 0 {
		return model.Package{}, NewHTTPError(http.StatusBadRequest, "price, durationDays and listingQuota must be positive")
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return model.Package{
		Name:         name,
		Description:  strings.TrimSpace(in.Description),
		Type:         typ,
		Price:        in.Price,
		DurationDays: in.DurationDays,
		ListingQuota: in.ListingQuota,
		IsActive:     active,
	}, nil
}

// 公開中のパッケージ（誰でも見られる）
func (u *PackageUsecase) ListActive(ctx context.Context) ([]model.Package, error) {
	items, err := u.packages.List(ctx, true)
	if err != nil {
		return []model.Package{}, errDB
	}
	return items, nil
}

// 管理画面用（非公開も含む）
func (u *PackageUsecase) ListAll(ctx context.Context) ([]model.Package, error) {
	items, err := u.packages.List(ctx, false)
	if err != nil {
		return []model.Package{}, errDB
	}
	return items, nil
}

func (u *PackageUsecase) Get(ctx context.Context, id int64) (model.Package, error) {
	if id <= 0 {
		return model.Package{}, errInvalidID
	}
	p, err := u.packages.FindByID(ctx, id)
	if err != nil {
		return model.Package{}, toHTTPError(err, "package not found")
	}
	return p, nil
}

func (u *PackageUsecase) Create(ctx context.Context, actor Actor, in PackageInput) (model.Package, error) {
	if !actor.valid() {
		return model.Package{}, errUnauthorized
	}
	p, err := in.toModel()
	if err != nil {
		return model.Package{}, err
	}

	created, err := u.packages.Create(ctx, p)
	if err != nil {
		return model.Package{}, toHTTPError(err, "package not found")
	}
	if err := writeAudit(ctx, u.auditRepo, u.clock.Now(), actor.UserID, model.AuditActionUpdatePackage, model.AuditResourcePackage, created.ID,
		nil, created, "create"); err != nil {
		return model.Package{}, errDB
	}
	return created, nil
}

func (u *PackageUsecase) Update(ctx context.Context, actor Actor, id int64, in PackageInput) (model.Package, error) {
	if !actor.valid() {
		return model.Package{}, errUnauthorized
	}
	if id <= 0 {
		return model.Package{}, errInvalidID
	}
	p, err := in.toModel()
	if err != nil {
		return model.Package{}, err
	}

	var updated model.Package
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Packages().FindByID(ctx, id)
		if err != nil {
			return err
		}
		p.ID = id
		if err := r.Packages().Update(ctx, p); err != nil {
			return err
		}
		updated, err = r.Packages().FindByID(ctx, id)
		if err != nil {
			return err
		}
		return writeAudit(ctx, r.AuditLogs(), u.clock.Now(), actor.UserID, model.AuditActionUpdatePackage, model.AuditResourcePackage, id,
			before, updated, "update")
	})
	if err != nil {
		return model.Package{}, toHTTPError(err, "package not found")
	}
	return updated, nil
}

// 論理削除。購入済みのものには影響しない。
func (u *PackageUsecase) Delete(ctx context.Context, actor Actor, id int64) error {
	if !actor.valid() {
		return errUnauthorized
	}
	if id <= 0 {
		return errInvalidID
	}
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Packages().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := r.Packages().SoftDelete(ctx, id); err != nil {
			return err
		}
		return writeAudit(ctx, r.AuditLogs(), u.clock.Now(), actor.UserID, model.AuditActionUpdatePackage, model.AuditResourcePackage, id,
			before, nil, "delete")
	})
	return toHTTPError(err, "package not found")
}

// Purchase は支払い待ちの購入を作る。支払いは PACKAGE_PURCHASE で行う（orderId = 返したID）。
func (u *PackageUsecase) Purchase(ctx context.Context, actor Actor, packageID int64) (contract.UserPackageView, error) {
	if !actor.valid() {
		return contract.UserPackageView{}, errUnauthorized
	}
	if packageID <= 0 {
		return contract.UserPackageView{}, errInvalidID
	}

	p, err := u.packages.FindByID(ctx, packageID)
	if err != nil {
		return contract.UserPackageView{}, toHTTPError(err, "package not found")
	}
	if !p.IsActive {
		return contract.UserPackageView{}, NewHTTPError(http.StatusConflict, "package is not available")
	}

	//価格・枠・期間は購入時点のものを保存
	up, err := u.userPackages.Create(ctx, model.UserPackage{
		UserID:       actor.UserID,
		PackageID:    p.ID,
		Type:         p.Type,
		Price:        p.Price,
		DurationDays: p.DurationDays,
		ListingQuota: p.ListingQuota,
		Status:       model.UserPackageStatusAwaitingPayment,
	})
	if err != nil {
		return contract.UserPackageView{}, errDB
	}
	return u.toView(up), nil
}

// 自分の購入済みパッケージ
func (u *PackageUsecase) Mine(ctx context.Context, actor Actor) ([]contract.UserPackageView, error) {
	if !actor.valid() {
		return []contract.UserPackageView{}, errUnauthorized
	}
	items, err := u.userPackages.ListByUserID(ctx, actor.UserID)
	if err != nil {
		return []contract.UserPackageView{}, errDB
	}
	out := make([]contract.UserPackageView, 0, len(items))
	for _, up := range items {
		out = append(out, u.toView(up))
	}
	return out, nil
}

func (u *PackageUsecase) toView(up model.UserPackage) contract.UserPackageView {
	status := string(up.Status)
	if up.Status == model.UserPackageStatusActive && up.IsExpired(u.clock.Now()) {
		status = userPackageExpired
	}
	return contract.UserPackageView{
		ID:             up.ID,
		PackageID:      up.PackageID,
		Type:           string(up.Type),
		Price:          up.Price,
		ListingQuota:   up.ListingQuota,
		RemainingSlots: up.RemainingSlots,
		Status:         status,
		PurchasedAt:    up.PurchasedAt,
		ExpiresAt:      up.ExpiresAt,
		Display:        statusview.Package(status),
	}
}
