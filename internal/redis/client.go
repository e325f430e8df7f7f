package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connection tuning for the single Redis instance backing both the view
// cache and the ledger event stream.
const (
	dialTimeout      = 5 * time.Second
	operationTimeout = 3 * time.Second
	poolSize         = 10
)

// Client wraps go-redis with the connection settings shared by every Redis
// consumer in the service.
type Client struct {
	*redis.Client
}

// NewClient connects to Redis and verifies the instance answers a ping
// before the server starts taking traffic.
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  dialTimeout,
		ReadTimeout:  operationTimeout,
		WriteTimeout: operationTimeout,
		PoolSize:     poolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &Client{Client: rdb}, nil
}

func (c *Client) Close() error {
	return c.Client.Close()
}
