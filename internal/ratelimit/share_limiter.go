package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"
	"github.com/saquib05/valentine-site/internal/config"
)

const (
	keyShareResolve   = "valentine:share:resolve:%s"
	keyConfirmPayment = "valentine:payment:confirm:%s"
)

// ShareLimiter throttles the two slug-adjacent endpoints per client IP:
// share resolution, so slugs cannot be brute-forced at line rate, and the
// simulated payment confirm. Disabled unless redis is configured.
type ShareLimiter struct {
	enabled bool

	bucket *TokenBucket

	resolveRate  float64
	resolveBurst int
	confirmRate  float64
	confirmBurst int
}

func NewShareLimiter(cfg config.Config) (*ShareLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.ShareResolveRate <= 0 || limitCfg.ShareResolveBurst <= 0 {
		return nil, errors.New("share resolve rate limit must be positive")
	}
	if limitCfg.ConfirmPaymentRate <= 0 || limitCfg.ConfirmPaymentBurst <= 0 {
		return nil, errors.New("confirm payment rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})

	return &ShareLimiter{
		enabled:      true,
		bucket:       NewTokenBucket(client),
		resolveRate:  limitCfg.ShareResolveRate,
		resolveBurst: limitCfg.ShareResolveBurst,
		confirmRate:  limitCfg.ConfirmPaymentRate,
		confirmBurst: limitCfg.ConfirmPaymentBurst,
	}, nil
}

func (l *ShareLimiter) Enabled() bool {
	return l != nil && l.enabled
}

func (l *ShareLimiter) AllowShareResolve(ctx context.Context, clientIP string) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	res, err := l.bucket.Allow(ctx, fmt.Sprintf(keyShareResolve, clientIP), l.resolveRate, l.resolveBurst)
	if err != nil {
		return false, err
	}
	return res.Allowed, nil
}

func (l *ShareLimiter) AllowConfirmPayment(ctx context.Context, clientIP string) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	res, err := l.bucket.Allow(ctx, fmt.Sprintf(keyConfirmPayment, clientIP), l.confirmRate, l.confirmBurst)
	if err != nil {
		return false, err
	}
	return res.Allowed, nil
}
