package app

import (
	"certprep/config"
	"certprep/internal/cache"
	"certprep/internal/database"
	"certprep/internal/repository"
	"certprep/internal/session"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// App holds the backends selected by configuration
type App struct {
	QuestionRepo repository.QuestionRepo
	ResultRepo   repository.ResultRepo
	SessionStore session.Store
	Signer       *session.Signer

	closers []func(ctx context.Context) error
}

// Open connects the question/result store named by cfg.StoreBackend
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	switch cfg.StoreBackend {
	case config.StoreMongo:
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		a.closers = append(a.closers, mongoClient.Disconnect)

		// Ping MongoDB
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := mongoClient.Ping(pingCtx, nil); err != nil {
			a.Close(ctx)
			return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
		}
		log.Printf("Connected to MongoDB (database %s)", cfg.MongoDatabase)

		db := mongoClient.Database(cfg.MongoDatabase)
		a.QuestionRepo = repository.NewMongoQuestionRepo(db)
		a.ResultRepo = repository.NewMongoResultRepo(db)

	default:
		db, err := database.Connect(cfg.DBDriver, cfg.DBDSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return db.Close() })
		log.Printf("Connected to %s database", cfg.DBDriver)

		a.QuestionRepo = repository.NewSQLQuestionRepo(db)
		a.ResultRepo = repository.NewSQLResultRepo(db)
	}

	return a, nil
}

// OpenSessions sets up the session signer and the exam state store named by
// cfg.SessionBackend
func (a *App) OpenSessions(ctx context.Context, cfg *config.Config) error {
	a.Signer = session.NewSigner(cfg.SessionSecret, cfg.SessionTTL)

	switch cfg.SessionBackend {
	case config.SessionRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		})
		a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })

		// Ping Redis
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			return fmt.Errorf("failed to ping Redis: %w", err)
		}
		log.Println("Connected to Redis")
		a.SessionStore = session.NewRedisStore(cache.NewSessionCache(rdb, cfg.SessionTTL))

	default:
		a.SessionStore = session.NewCookieStore(a.Signer)
	}
	return nil
}

// Close releases every connection, newest first
func (a *App) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			log.Printf("Warning: close failed: %v", err)
		}
	}
	a.closers = nil
}
