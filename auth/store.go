package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoChallenge means there is no live code for the phone, either because
// none was sent or because it expired.
var ErrNoChallenge = errors.New("no active otp challenge")

// Challenge is a pending login code for one phone number.
type Challenge struct {
	Hash     string
	Attempts int
}

type OTPStore interface {
	// Reserve claims the resend slot for phone. It reports false while a
	// previous send is still inside its cooldown.
	Reserve(ctx context.Context, phone string, cooldown time.Duration) (bool, error)
	Save(ctx context.Context, phone, hash string, ttl time.Duration) error
	Get(ctx context.Context, phone string) (Challenge, error)
	// AddAttempt records a failed verification and returns the new count.
	AddAttempt(ctx context.Context, phone string) (int, error)
	Delete(ctx context.Context, phone string) error
}

type RedisOTPStore struct {
	client *redis.Client
}

func NewRedisOTPStore(client *redis.Client) *RedisOTPStore {
	return &RedisOTPStore{client: client}
}

func (r *RedisOTPStore) Reserve(ctx context.Context, phone string, cooldown time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, resendKey(phone), "1", cooldown).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx failed: %w", err)
	}
	return ok, nil
}

// Save replaces any previous challenge and resets the attempt count.
func (r *RedisOTPStore) Save(ctx context.Context, phone, hash string, ttl time.Duration) error {
	key := challengeKey(phone)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, "hash", hash, "attempts", 0)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save otp failed: %w", err)
	}
	return nil
}

func (r *RedisOTPStore) Get(ctx context.Context, phone string) (Challenge, error) {
	var fields struct {
		Hash     string `redis:"hash"`
		Attempts int    `redis:"attempts"`
	}
	res := r.client.HGetAll(ctx, challengeKey(phone))
	if err := res.Err(); err != nil {
		return Challenge{}, fmt.Errorf("redis get otp failed: %w", err)
	}
	if len(res.Val()) == 0 {
		return Challenge{}, ErrNoChallenge
	}
	if err := res.Scan(&fields); err != nil {
		return Challenge{}, fmt.Errorf("decode otp challenge: %w", err)
	}
	return Challenge{Hash: fields.Hash, Attempts: fields.Attempts}, nil
}

func (r *RedisOTPStore) AddAttempt(ctx context.Context, phone string) (int, error) {
	n, err := r.client.HIncrBy(ctx, challengeKey(phone), "attempts", 1).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr attempts failed: %w", err)
	}
	return int(n), nil
}

func (r *RedisOTPStore) Delete(ctx context.Context, phone string) error {
	if err := r.client.Del(ctx, challengeKey(phone)).Err(); err != nil {
		return fmt.Errorf("redis delete otp failed: %w", err)
	}
	return nil
}

func challengeKey(phone string) string { return fmt.Sprintf("otp:%s", phone) }

func resendKey(phone string) string { return fmt.Sprintf("otp:resend:%s", phone) }
