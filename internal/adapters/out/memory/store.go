// Package memory is an in-process implementation of the notice store ports.
// It backs the service when STORE_DRIVER=memory and is used by tests that need
// real concurrent behaviour without a database.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"notice/internal/core/domain/model/kernel"
	"notice/internal/core/domain/model/messageorder"
	"notice/internal/core/domain/model/notice"
	"notice/internal/core/domain/model/task"
	"notice/internal/pkg/errs"
)

// Store holds orders, items and tasks. Every value crossing the boundary is
// cloned, so callers never share state with the store.
type Store struct {
	mu     sync.RWMutex
	orders map[kernel.UUID]*messageorder.Order
	items  map[kernel.UUID]*messageorder.Item
	tasks  map[kernel.UUID]*task.Task
}

func NewStore() *Store {
	return &Store{
		orders: make(map[kernel.UUID]*messageorder.Order),
		items:  make(map[kernel.UUID]*messageorder.Item),
		tasks:  make(map[kernel.UUID]*task.Task),
	}
}

// PutTask inserts or replaces a task. Tasks belong to the execution subsystem;
// this is how tests and local runs simulate it.
func (s *Store) PutTask(t *task.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *t
	s.tasks[t.ID()] = &cp
}

func (s *Store) addOrder(o *messageorder.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[o.ID()]; ok {
		return errs.NewValueIsInvalidErrorWithCause("message order", errDuplicate(o.ID()))
	}
	s.orders[o.ID()] = o.Clone()
	return nil
}

func (s *Store) updateOrder(o *messageorder.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.orders[o.ID()]
	if !ok {
		return errs.NewObjectNotFoundError("message order", o.ID().String())
	}
	if stored.Status() != messageorder.Processing {
		return messageorder.ErrOrderIsNotProcessing
	}
	s.orders[o.ID()] = o.Clone()
	return nil
}

func (s *Store) getOrder(id kernel.UUID) (*messageorder.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("message order", id.String())
	}
	return o.Clone(), nil
}

func (s *Store) listProcessing(excludeIDs []kernel.UUID, limit int) []*messageorder.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	excluded := make(map[kernel.UUID]struct{}, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = struct{}{}
	}

	result := make([]*messageorder.Order, 0)
	for id, o := range s.orders {
		if o.Status() != messageorder.Processing {
			continue
		}
		if _, skip := excluded[id]; skip {
			continue
		}
		result = append(result, o.Clone())
	}

	slices.SortFunc(result, func(a, b *messageorder.Order) int {
		if c := a.CreatedAt().Compare(b.CreatedAt()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID().String(), b.ID().String())
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}

func (s *Store) addItems(items []*messageorder.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, it := range items {
		if _, ok := s.items[it.ID()]; ok {
			return errs.NewValueIsInvalidErrorWithCause("message order item", errDuplicate(it.ID()))
		}
	}
	for _, it := range items {
		s.items[it.ID()] = it.Clone()
	}
	return nil
}

func (s *Store) updateItem(it *messageorder.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[it.ID()]; !ok {
		return errs.NewObjectNotFoundError("message order item", it.ID().String())
	}
	s.items[it.ID()] = it.Clone()
	return nil
}

func (s *Store) listItems(orderID kernel.UUID) []*messageorder.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*messageorder.Item, 0)
	for _, it := range s.items {
		if it.OrderID().IsEqual(orderID) {
			result = append(result, it.Clone())
		}
	}
	slices.SortFunc(result, func(a, b *messageorder.Item) int {
		return cmp.Compare(a.ID().String(), b.ID().String())
	})
	return result
}

func (s *Store) getTask(id kernel.UUID) (*task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("task", id.String())
	}
	cp := *t
	return &cp, nil
}

func (s *Store) summarize(orderID kernel.UUID, topN int) notice.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := notice.Summary{TopTasks: []notice.TaskSummary{}}
	for _, it := range s.items {
		if !it.OrderID().IsEqual(orderID) {
			continue
		}
		t, ok := s.tasks[it.TaskID()]
		if !ok {
			continue
		}
		summary.ReturnSum += t.ReturnSum()
		summary.ResourcesSum += t.ResourcesSum()
		summary.TopTasks = append(summary.TopTasks, notice.TaskSummary{
			ID:           t.ID(),
			Name:         t.Name(),
			Status:       t.Status().String(),
			ReturnSum:    t.ReturnSum(),
			ResourcesSum: t.ResourcesSum(),
		})
	}

	slices.SortFunc(summary.TopTasks, func(a, b notice.TaskSummary) int {
		if c := cmp.Compare(b.ReturnSum, a.ReturnSum); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if topN >= 0 && len(summary.TopTasks) > topN {
		summary.TopTasks = summary.TopTasks[:topN]
	}
	return summary
}

type orderRow struct {
	order      *messageorder.Order
	itemsTotal int
	finished   int
	failed     int
}

// orderRows returns orders with their item counters, oldest first. A nil
// status matches every order.
func (s *Store) orderRows(status *messageorder.Status, limit int) []orderRow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]orderRow, 0)
	for _, o := range s.orders {
		if status != nil && o.Status() != *status {
			continue
		}
		row := orderRow{order: o.Clone()}
		for _, it := range s.items {
			if !it.OrderID().IsEqual(o.ID()) {
				continue
			}
			row.itemsTotal++
			switch it.Status() {
			case messageorder.Finished:
				row.finished++
			case messageorder.Error:
				row.failed++
			}
		}
		rows = append(rows, row)
	}

	slices.SortFunc(rows, func(a, b orderRow) int {
		if c := a.order.CreatedAt().Compare(b.order.CreatedAt()); c != 0 {
			return c
		}
		return cmp.Compare(a.order.ID().String(), b.order.ID().String())
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

func checkContext(ctx context.Context) error {
	return ctx.Err()
}

func errDuplicate(id kernel.UUID) error {
	return fmt.Errorf("id %s already exists", id)
}
