package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"resume-maker/internal/shared/telemetry"
)

const defaultConnectTimeout = 10 * time.Second

// Store holds a connected client and the database resumes live in.
type Store struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// Connect dials uri, pings the primary and selects dbName.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, fmt.Errorf("MONGO_URI is empty")
	}
	if strings.TrimSpace(dbName) == "" {
		return nil, fmt.Errorf("MONGO_DB is empty")
	}

	connectCtx, cancel := context.WithTimeout(ctx, defaultConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	telemetry.L().Info("connected to mongo", zap.String("db", dbName))
	return &Store{Client: client, Database: client.Database(dbName)}, nil
}

// Ping checks the connection within timeout.
func (s *Store) Ping(ctx context.Context, timeout time.Duration) error {
	if s == nil || s.Client == nil {
		return fmt.Errorf("mongo not configured")
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.Client.Ping(pingCtx, nil)
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.Client == nil {
		return nil
	}
	return s.Client.Disconnect(ctx)
}
