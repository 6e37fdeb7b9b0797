//go:build wireinject
// +build wireinject

// Wire依赖注入配置
// 运行 `wire gen ./cmd/api` 生成wire_gen.go,
// main.go中的手动组装代码与这里的声明一一对应

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appai "github.com/xiebiao/library/internal/application/ai"
	appbook "github.com/xiebiao/library/internal/application/book"
	apploan "github.com/xiebiao/library/internal/application/loan"
	appuser "github.com/xiebiao/library/internal/application/user"
	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/ai"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/infrastructure/oauth"
	"github.com/xiebiao/library/internal/infrastructure/persistence/postgres"
	"github.com/xiebiao/library/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/internal/interface/http/router"
	"github.com/xiebiao/library/pkg/jwt"
	"github.com/xiebiao/library/pkg/logger"
)

// infrastructureSet 基础设施层依赖
var infrastructureSet = wire.NewSet(
	config.Load,
	postgres.NewDB,
	redis.NewClient,
	provideLogger,
	oauth.NewRegistry,
	ai.NewClient,
	wire.Bind(new(appai.ModelClient), new(*ai.Client)),
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	postgres.NewUserRepository,
	postgres.NewBookRepository,
	postgres.NewLoanRepository,
	postgres.NewTxManager,
	wire.Bind(new(apploan.TxManager), new(*postgres.TxManager)),
	wire.Bind(new(appbook.TxManager), new(*postgres.TxManager)),
	provideStateStore,
	provideAICache,
	wire.Bind(new(appai.Cache), new(*redis.AICache)),
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	user.NewService,
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appuser.NewLoginUseCase,
	appuser.NewListUsersUseCase,
	appuser.NewUpdateRoleUseCase,
	appbook.NewCreateBookUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewDeleteBookUseCase,
	apploan.NewCheckoutUseCase,
	apploan.NewReturnUseCase,
	apploan.NewListLoansUseCase,
	appai.NewEnrichUseCase,
	appai.NewSemanticSearchUseCase,
	appai.NewAskUseCase,
)

// interfaceSet 接口层依赖
var interfaceSet = wire.NewSet(
	provideJWTManager,
	middleware.NewAuthMiddleware,
	handler.NewAuthHandler,
	handler.NewBookHandler,
	handler.NewLoanHandler,
	handler.NewAdminHandler,
	handler.NewAIHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.Setup,
)

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpire)
}

// provideLogger 从配置创建zap日志器
func provideLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		EnableCaller: cfg.Log.EnableCaller,
	})
}

// provideStateStore 从Redis客户端创建state存储
func provideStateStore(client *goredis.Client, cfg *config.Config) *redis.StateStore {
	return redis.NewStateStore(client, cfg.OAuth.StateTTL)
}

// provideAICache 从Redis客户端创建AI结果缓存
func provideAICache(client *goredis.Client, cfg *config.Config) *redis.AICache {
	return redis.NewAICache(client, cfg.AI.CacheTTL)
}

// InitializeApp Wire注入器入口
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		interfaceSet,
	)
	return nil, nil
}
