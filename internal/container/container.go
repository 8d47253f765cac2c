package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/eadebayo/delicioso/config"
	"github.com/eadebayo/delicioso/internal/application"
	"github.com/eadebayo/delicioso/internal/infrastructure/postgres"
	"github.com/eadebayo/delicioso/pkg/helpers"
)

// Container holds the constructed components shared across modules. It is
// built once at startup and passed down explicitly; nothing here is a
// package-level singleton.
type Container struct {
	Cfg    *config.Config
	Logger *logrus.Logger
	Pool   *pgxpool.Pool
	Redis  *redis.Client
	ES     *elasticsearch.Client
	Rabbit *helpers.RabbitPublisher
	JWT    *helpers.JWTManager

	Auth    *application.AuthService
	Users   *application.UserService
	Stores  *application.StoreService
	Reviews *application.ReviewService
	Search  *application.SearchService
}

func New(cfg *config.Config, logger *logrus.Logger, pool *pgxpool.Pool, rdb *redis.Client, es *elasticsearch.Client, pub *helpers.RabbitPublisher, jwt *helpers.JWTManager) *Container {
	userRepo := postgres.NewUserRepository(pool)
	storeRepo := postgres.NewStoreRepository(pool)
	reviewRepo := postgres.NewReviewRepository(pool)

	search := application.NewSearchService(storeRepo, es, cfg.ESStoresIndex, logger)
	reviews := application.NewReviewService(reviewRepo, storeRepo, logger)

	return &Container{
		Cfg:    cfg,
		Logger: logger,
		Pool:   pool,
		Redis:  rdb,
		ES:     es,
		Rabbit: pub,
		JWT:    jwt,

		Auth:    application.NewAuthService(userRepo, jwt, logger, pub, cfg),
		Users:   application.NewUserService(userRepo, storeRepo, logger),
		Stores:  application.NewStoreService(storeRepo, reviewRepo, search, reviews, rdb, logger),
		Reviews: reviews,
		Search:  search,
	}
}
