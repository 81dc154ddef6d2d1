// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/pagepulse/internal/app/store/oauthstate"
	pageviewstore "github.com/dalemusser/pagepulse/internal/app/store/pageviews"
	projectstore "github.com/dalemusser/pagepulse/internal/app/store/projects"
	userstore "github.com/dalemusser/pagepulse/internal/app/store/users"
	"github.com/dalemusser/pagepulse/internal/app/system/indexes"
	"github.com/dalemusser/pagepulse/internal/app/system/timeouts"
	"github.com/dalemusser/pagepulse/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB opens the MongoDB client and confirms the primary answers.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetAppName("pagepulse")
	if appCfg.MongoMaxPoolSize > 0 {
		opts.SetMaxPoolSize(appCfg.MongoMaxPoolSize)
	}
	if appCfg.MongoMinPoolSize > 0 {
		opts.SetMinPoolSize(appCfg.MongoMinPoolSize)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		logger.Error("MongoDB connect failed", zap.Error(err))
		return DBDeps{}, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		logger.Error("MongoDB ping failed", zap.Error(err))
		return DBDeps{}, fmt.Errorf("ping mongo: %w", err)
	}

	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))
	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema applies collection validators, then each store's indexes.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	if err := validators.EnsureAll(ctx, db); err != nil {
		logger.Error("schema validators failed", zap.Error(err))
		return err
	}

	err := indexes.EnsureAll(ctx,
		indexes.Step{Name: "users", Store: userstore.New(db)},
		indexes.Step{Name: "projects", Store: projectstore.New(db)},
		indexes.Step{Name: "page_views", Store: pageviewstore.New(db)},
		indexes.Step{Name: "oauth_states", Store: oauthstate.New(db)},
	)
	if err != nil {
		logger.Error("index setup failed", zap.Error(err))
		return err
	}

	logger.Info("schema ready")
	return nil
}
