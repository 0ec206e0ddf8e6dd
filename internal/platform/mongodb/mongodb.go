package mongodb

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/yungbote/honeyshop-backend/internal/platform/envutil"
	"github.com/yungbote/honeyshop-backend/internal/platform/logger"
	"github.com/yungbote/honeyshop-backend/internal/platform/startup"
)

const (
	DefaultURI      = "mongodb://mongo:27017/honey"
	DefaultDatabase = "honey"
)

type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	Retry          startup.Policy
	// Transactions enables multi-document transactions; requires a replica set.
	Transactions bool
}

func ConfigFromEnv() Config {
	uri := envutil.String("MONGO_URI", DefaultURI)
	return Config{
		URI:            uri,
		Database:       envutil.String("MONGO_DB_NAME", DatabaseNameFromURI(uri, DefaultDatabase)),
		ConnectTimeout: envutil.Seconds("MONGO_CONNECT_TIMEOUT", 5*time.Second),
		Retry: startup.Policy{
			Attempts: envutil.Int("MONGO_CONNECT_RETRIES", startup.DefaultPolicy.Attempts),
			Delay:    envutil.Millis("MONGO_CONNECT_RETRY_DELAY_MS", startup.DefaultPolicy.Delay),
		},
		Transactions: envutil.Bool("MONGO_TRANSACTIONS", false),
	}
}

// DatabaseNameFromURI returns the database named in the URI path, or fallback
// when the path is empty, unparsable, or names the admin database.
func DatabaseNameFromURI(uri, fallback string) string {
	u, err := url.Parse(strings.TrimSpace(uri))
	if err != nil {
		return fallback
	}
	name := strings.TrimLeft(u.Path, "/")
	if name == "" || name == "admin" {
		return fallback
	}
	return name
}

// Client owns the process-wide document store connection.
type Client struct {
	log          *logger.Logger
	client       *mongo.Client
	db           *mongo.Database
	transactions bool
}

// Connect dials the document store, pinging the primary until it answers or
// the retry policy is exhausted.
func Connect(ctx context.Context, log *logger.Logger, cfg Config) (*Client, error) {
	clientLog := log.With("service", "MongoClient")
	if strings.TrimSpace(cfg.Database) == "" {
		cfg.Database = DatabaseNameFromURI(cfg.URI, DefaultDatabase)
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	var mc *mongo.Client
	err := startup.Retry(ctx, clientLog, cfg.Retry, "mongodb", func(ctx context.Context) error {
		opts := options.Client().
			ApplyURI(cfg.URI).
			SetServerSelectionTimeout(timeout).
			SetConnectTimeout(timeout)
		c, err := mongo.Connect(ctx, opts)
		if err != nil {
			return err
		}
		pingCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := c.Ping(pingCtx, readpref.Primary()); err != nil {
			_ = c.Disconnect(context.Background())
			return err
		}
		mc = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	clientLog.Info("MongoDB connected", "database", cfg.Database, "transactions", cfg.Transactions)
	return &Client{
		log:          clientLog,
		client:       mc,
		db:           mc.Database(cfg.Database),
		transactions: cfg.Transactions,
	}, nil
}

func (c *Client) Database() *mongo.Database { return c.db }

func (c *Client) Collection(name string) *mongo.Collection { return c.db.Collection(name) }

func (c *Client) SupportsTransactions() bool { return c != nil && c.transactions }

// WithTransaction runs fn inside a multi-document transaction. fn receives a
// session-bound context that must be passed to every collection call.
func (c *Client) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := c.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)
	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Disconnect(ctx)
}
