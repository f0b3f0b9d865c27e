package lifecycle

import (
	"errors"
	"fmt"
	"sort"
)

// 許可されていない遷移
var ErrInvalidTransition = errors.New("invalid status transition")

// TransitionError は遷移できなかった理由を持つ。errors.Is(err, ErrInvalidTransition) で判定する。
type TransitionError struct {
	Resource string
	Event    string
	From     string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: cannot %s from %s", e.Resource, e.Event, e.From)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// Rule はイベント1つ分の遷移（元ステータス群 -> 先ステータス）。
type Rule[S ~string] struct {
	From []S
	To   S
}

// Machine はステータス遷移表。
type Machine[S ~string, E ~string] struct {
	resource string
	rules    map[E]Rule[S]
}

func NewMachine[S ~string, E ~string](resource string, rules map[E]Rule[S]) *Machine[S, E] {
	return &Machine[S, E]{resource: resource, rules: rules}
}

// Next はfromからevで遷移した先を返す。
func (m *Machine[S, E]) Next(from S, ev E) (S, error) {
	rule, ok := m.rules[ev]
	if ok {
		for _, f := range rule.From {
			if f == from {
				return rule.To, nil
			}
		}
	}
	var zero S
	return zero, &TransitionError{Resource: m.resource, Event: string(ev), From: string(from)}
}

// Can は遷移可能か
func (m *Machine[S, E]) Can(from S, ev E) bool {
	_, err := m.Next(from, ev)
	return err == nil
}

// Allowed はfromから実行できるイベント一覧（名前順）。
func (m *Machine[S, E]) Allowed(from S) []E {
	out := make([]E, 0)
	for ev, rule := range m.rules {
		for _, f := range rule.From {
			if f == from {
				out = append(out, ev)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// IsTerminal はどのイベントでも抜け出せないステータスか。
func (m *Machine[S, E]) IsTerminal(s S) bool {
	return len(m.Allowed(s)) == 0
}
