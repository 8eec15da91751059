package storage

import (
	"context"
	"fmt"
)

// AllowChatSend checks the per-identity send budget in Redis. With no Redis
// configured (or a non-positive limit) everything is admitted. The counter
// is a plain INCR with a TTL set on first increment, the same fast-path
// shape as a ban check.
func (s *Service) AllowChatSend(ctx context.Context, userID string) (bool, error) {
	if s.Redis == nil || s.RateLimit <= 0 {
		return true, nil
	}
	key := fmt.Sprintf("chat_rate:%s", userID)
	n, err := s.Redis.Incr(ctx, key).Result()
	if err != nil {
		// Redis being down must not take chat down with it.
		return true, nil
	}
	if n == 1 {
		s.Redis.Expire(ctx, key, s.RateWindow)
	}
	return n <= int64(s.RateLimit), nil
}
