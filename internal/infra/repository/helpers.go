package repository

import (
	"errors"

	repo "evmarket/internal/repository"

	"gorm.io/gorm"
)

// page/limitの補正（不正値はデフォルト）
func normalizePage(page, limit int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return page, limit
}

// gormのエラーをrepositoryのエラーにそろえる
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repo.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repo.ErrDuplicate
	}
	return err
}
