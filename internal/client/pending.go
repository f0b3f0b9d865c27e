package client

import (
	"encoding/json"
	"errors"
	"os"
	"sync"
)

// 決済ページへ移動する前に保存しておく取引
type Pending struct {
	TransactionCode string `json:"pendingTransaction"`
	OrderID         int64  `json:"pendingOrderId"`
}

type PendingStore interface {
	Save(p Pending) error
	//なければ ok=false
	Load() (Pending, bool, error)
	Clear() error
}

type MemoryPendingStore struct {
	mu sync.Mutex
	p  *Pending
}

func NewMemoryPendingStore() *MemoryPendingStore {
	return &MemoryPendingStore{}
}

func (s *MemoryPendingStore) Save(p Pending) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p = &p
	return nil
}

func (s *MemoryPendingStore) Load() (Pending, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.p == nil {
		return Pending{}, false, nil
	}
	return *s.p, true, nil
}

func (s *MemoryPendingStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p = nil
	return nil
}

// FilePendingStore はJSONファイルに保存する（プロセスを跨いで残る）。
type FilePendingStore struct {
	mu   sync.Mutex
	path string
}

func NewFilePendingStore(path string) *FilePendingStore {
	return &FilePendingStore{path: path}
}

func (s *FilePendingStore) Save(p Pending) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	//書きかけを読ませない
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *FilePendingStore) Load() (Pending, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Pending{}, false, nil
	}
	if err != nil {
		return Pending{}, false, err
	}
	var p Pending
	if err := json.Unmarshal(b, &p); err != nil {
		return Pending{}, false, err
	}
	if p.TransactionCode == "" {
		return Pending{}, false, nil
	}
	return p, true, nil
}

func (s *FilePendingStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
