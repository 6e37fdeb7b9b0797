package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

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
	"github.com/xiebiao/library/pkg/response"
)

// @title           Library API
// @version         0.1.0
// @description     图书目录与借阅服务
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization

// main 主程序入口
// 说明：手动依赖注入,与wire.go中的声明保持一致
// (运行 wire gen ./cmd/api 可生成wire_gen.go替代本函数的组装代码)
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 初始化日志
	zapLogger, err := logger.New(logger.Options{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zapLogger.Sync()
	response.SetLogger(zapLogger)

	oauthRegistry := oauth.NewRegistry(cfg)
	zapLogger.Info("配置加载成功",
		zap.Int("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("database", fmt.Sprintf("%s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)),
		zap.String("redis", cfg.Redis.Addr()),
		zap.Strings("oauth_providers", oauthRegistry.Names()),
	)

	// 3. 初始化数据库与Redis连接
	db, err := postgres.NewDB(cfg)
	if err != nil {
		zapLogger.Fatal("初始化数据库失败", zap.Error(err))
	}
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		zapLogger.Fatal("初始化Redis失败", zap.Error(err))
	}

	// 4. 依赖注入（手动组装）
	// 依赖链：Repository ← Service ← UseCase ← Handler

	// 基础设施层
	userRepo := postgres.NewUserRepository(db)
	bookRepo := postgres.NewBookRepository(db)
	loanRepo := postgres.NewLoanRepository(db)
	txManager := postgres.NewTxManager(db)
	stateStore := redis.NewStateStore(redisClient, cfg.OAuth.StateTTL)
	aiCache := redis.NewAICache(redisClient, cfg.AI.CacheTTL)
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpire)
	aiClient := ai.NewClient(cfg)

	// 领域层
	userService := user.NewService(userRepo)

	// 应用层
	loginUseCase := appuser.NewLoginUseCase(userService, jwtManager)
	listUsersUseCase := appuser.NewListUsersUseCase(userService)
	updateRoleUseCase := appuser.NewUpdateRoleUseCase(userService)
	createBookUseCase := appbook.NewCreateBookUseCase(bookRepo)
	getBookUseCase := appbook.NewGetBookUseCase(bookRepo)
	listBooksUseCase := appbook.NewListBooksUseCase(bookRepo)
	updateBookUseCase := appbook.NewUpdateBookUseCase(bookRepo, txManager)
	deleteBookUseCase := appbook.NewDeleteBookUseCase(bookRepo, loanRepo, txManager)
	checkoutUseCase := apploan.NewCheckoutUseCase(loanRepo, bookRepo, txManager)
	returnUseCase := apploan.NewReturnUseCase(loanRepo, bookRepo, txManager)
	listLoansUseCase := apploan.NewListLoansUseCase(loanRepo)
	enrichUseCase := appai.NewEnrichUseCase(aiClient, aiCache, zapLogger)
	searchUseCase := appai.NewSemanticSearchUseCase(bookRepo, aiClient, aiCache, zapLogger)
	askUseCase := appai.NewAskUseCase(bookRepo, aiClient, zapLogger)

	// 接口层
	handlers := router.Handlers{
		Auth:  handler.NewAuthHandler(oauthRegistry, stateStore, loginUseCase, cfg),
		Book:  handler.NewBookHandler(createBookUseCase, getBookUseCase, listBooksUseCase, updateBookUseCase, deleteBookUseCase),
		Loan:  handler.NewLoanHandler(checkoutUseCase, returnUseCase, listLoansUseCase),
		Admin: handler.NewAdminHandler(listUsersUseCase, updateRoleUseCase),
		AI:    handler.NewAIHandler(enrichUseCase, searchUseCase, askUseCase),
	}
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)

	// 5. 创建引擎并启动
	engine := router.Setup(cfg, zapLogger, handlers, authMiddleware)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("服务启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("启动服务失败", zap.Error(err))
		}
	}()

	// 6. 优雅停机:等待在途请求完成
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("收到停机信号,关闭服务中")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("关闭服务失败", zap.Error(err))
	}
	if err := redisClient.Close(); err != nil {
		zapLogger.Error("关闭Redis连接失败", zap.Error(err))
	}
	zapLogger.Info("服务已退出")
}
