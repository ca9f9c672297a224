package memory

import (
	"context"
	"sync"
)

// BalanceLedger is an in-memory settlement sink accumulating user balances.
type BalanceLedger struct {
	mu       sync.RWMutex
	balances map[string]int
}

func NewBalanceLedger() *BalanceLedger {
	return &BalanceLedger{balances: make(map[string]int)}
}

func (l *BalanceLedger) CreditBalance(_ context.Context, userID string, amount int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[userID] += amount
	return nil
}

// Balance returns the accumulated winnings of a user.
func (l *BalanceLedger) Balance(userID string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[userID]
}
