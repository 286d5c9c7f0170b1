package redis

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	ticketPrefix = "socket:ticket"
	ticketTTL    = 2 * time.Minute // 略长于凭证本身的有效期即可
)

var ErrTicketUsed = errors.New("socket ticket already used")

// TicketRepository socket 凭证一次性消费：SETNX 占住 jti，占不到说明已用过
type TicketRepository struct{}

func (t *TicketRepository) Consume(ctx context.Context, jti string) error {
	key := fmt.Sprintf("%s:%s", ticketPrefix, jti)
	ok, err := Client.SetNX(ctx, key, "1", ticketTTL).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrTicketUsed
	}
	return nil
}
