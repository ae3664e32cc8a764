package client

import (
	"context"
	"crypto/tls"
	"sync"
	"time"

	mongostore "medassist/pkg/db/mongo"
	"medassist/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const disconnectTimeout = 10 * time.Second

// Client owns the process-wide connection handles. It is created once at startup
// and handed to every repository through config.Config.
type Client struct {
	mu    sync.RWMutex
	Mongo *mongo.Client
	Redis *redis.Client
}

func NewClient() *Client {
	return &Client{}
}

type MongoOptions struct {
	URI         string
	ConnTimeout time.Duration
	TLS         bool
}

func (c *Client) SetMongo(log *logger.Logger, opts MongoOptions) {
	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnTimeout)
	defer cancel()

	clientOpts := options.Client().ApplyURI(opts.URI)
	if opts.TLS {
		clientOpts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB",
			"error", err,
			"tls", opts.TLS,
		)
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB", "error", err)
	}

	log.Info("Successfully connected to MongoDB", "tls", opts.TLS)
	c.mu.Lock()
	c.Mongo = client
	c.mu.Unlock()
}

type RedisOptions struct {
	Addr        string
	Password    string
	DB          int
	ConnTimeout time.Duration
}

func (c *Client) SetRedis(log *logger.Logger, opts RedisOptions) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: opts.ConnTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to ping Redis", "error", err, "addr", opts.Addr)
	}

	log.Info("Successfully connected to Redis", "addr", opts.Addr)
	c.mu.Lock()
	c.Redis = rdb
	c.mu.Unlock()
}

// Database returns a handle to the named database, or ErrStoreUnavailable when
// no connection is established.
func (c *Client) Database(name string) (*mongo.Database, error) {
	if c == nil {
		return nil, mongostore.ErrStoreUnavailable
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.Mongo == nil {
		return nil, mongostore.ErrStoreUnavailable
	}
	return c.Mongo.Database(name), nil
}

// Ping checks the MongoDB connection.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil {
		return mongostore.ErrStoreUnavailable
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.Mongo == nil {
		return mongostore.ErrStoreUnavailable
	}
	return c.Mongo.Ping(ctx, nil)
}

// GracefulShutdown closes every open connection. Later Database calls report
// ErrStoreUnavailable.
func (c *Client) GracefulShutdown(log *logger.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()

	if c.Mongo != nil {
		if err := c.Mongo.Disconnect(ctx); err != nil {
			log.Error("Failed to disconnect from MongoDB", "error", err)
		} else {
			log.Info("MongoDB connection closed")
		}
		c.Mongo = nil
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Error("Failed to close Redis connection", "error", err)
		} else {
			log.Info("Redis connection closed")
		}
		c.Redis = nil
	}
}
