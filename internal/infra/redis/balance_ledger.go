package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// BalanceLedger settles prizes into per-user Redis counters.
type BalanceLedger struct {
	client *redis.Client
}

func NewBalanceLedger(client *redis.Client) *BalanceLedger {
	return &BalanceLedger{client: client}
}

func (l *BalanceLedger) CreditBalance(ctx context.Context, userID string, amount int) error {
	return l.client.IncrBy(ctx, l.balanceKey(userID), int64(amount)).Err()
}

// Balance returns the accumulated winnings of a user.
func (l *BalanceLedger) Balance(ctx context.Context, userID string) (int, error) {
	value, err := l.client.Get(ctx, l.balanceKey(userID)).Int()
	if err == redis.Nil {
		return 0, nil
	}
	return value, err
}

func (l *BalanceLedger) balanceKey(userID string) string {
	return "balance:" + userID
}
