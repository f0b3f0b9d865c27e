package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// 条件付き更新で対象のステータスが変わっていた（同時更新）
	ErrConflict = errors.New("conflict")
	// 一意制約違反
	ErrDuplicate = errors.New("duplicate")
)
