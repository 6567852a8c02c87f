package services

import (
	"context"
	"sync"
)

type stockMemoKey struct{}

// StockMemo remembers the stock available per SKU for the lifetime of one
// request. It must not be shared between requests.
type StockMemo struct {
	mu        sync.Mutex
	available map[string]int
}

func NewStockMemo() *StockMemo {
	return &StockMemo{available: make(map[string]int)}
}

func (m *StockMemo) get(sku string) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.available[sku]
	return n, ok
}

func (m *StockMemo) set(sku string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.available[sku] = n
}

// Forget drops the remembered availability of sku, e.g. after it was added to a cart.
func (m *StockMemo) Forget(sku string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.available, sku)
}

func WithStockMemo(ctx context.Context, memo *StockMemo) context.Context {
	return context.WithValue(ctx, stockMemoKey{}, memo)
}

// StockMemoFrom returns the memo carried by ctx, or nil.
func StockMemoFrom(ctx context.Context) *StockMemo {
	memo, _ := ctx.Value(stockMemoKey{}).(*StockMemo)
	return memo
}
