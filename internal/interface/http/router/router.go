package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xiebiao/library/internal/domain/user"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/internal/interface/http/handler"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	"github.com/xiebiao/library/pkg/response"
)

// Handlers 路由注册所需的全部处理器
type Handlers struct {
	Auth  *handler.AuthHandler
	Book  *handler.BookHandler
	Loan  *handler.LoanHandler
	Admin *handler.AdminHandler
	AI    *handler.AIHandler
}

// Setup 创建Gin引擎并注册全部路由
// 权限梯度:
// - 健康检查/登录/回调/目录读/语义检索:公开
// - 借还、问答:登录即可
// - 图书写、元数据生成:LIBRARIAN/ADMIN
// - 用户管理:仅ADMIN
func Setup(
	cfg *config.Config,
	logger *zap.Logger,
	h Handlers,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORSOrigins))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		response.Success(c, gin.H{
			"status":  "ok",
			"version": config.Version,
		})
	})

	// Swagger文档
	// 访问 http://localhost:8000/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	requireAuth := authMiddleware.RequireAuth()
	canManage := authMiddleware.RequireRoles(user.RoleAdmin, user.RoleLibrarian)

	v1 := r.Group("/api/v1")
	{
		// 认证模块
		auth := v1.Group("/auth")
		{
			auth.GET("/login/:provider", h.Auth.Login)
			auth.GET("/callback/:provider", h.Auth.Callback)
			auth.GET("/me", requireAuth, h.Auth.Me)
		}

		// 图书模块(目录读公开,写需要馆员或管理员)
		books := v1.Group("/books")
		{
			// 智能接口注册在/:id之前,避免"enrich"被当成图书ID
			books.POST("/enrich", requireAuth, canManage, h.AI.Enrich)
			books.GET("/ai-search", h.AI.SemanticSearch)
			books.POST("/ask", requireAuth, h.AI.Ask)

			books.GET("", h.Book.ListBooks)
			books.POST("", requireAuth, canManage, h.Book.CreateBook)
			books.GET("/:id", h.Book.GetBook)
			books.PUT("/:id", requireAuth, canManage, h.Book.UpdateBook)
			books.DELETE("/:id", requireAuth, canManage, h.Book.DeleteBook)
		}

		// 借阅模块(需要登录)
		loans := v1.Group("/loans")
		loans.Use(requireAuth)
		{
			loans.POST("/checkout", h.Loan.Checkout)
			loans.POST("/return", h.Loan.Return)
			loans.GET("", h.Loan.ListLoans)
		}

		// 管理端(仅ADMIN)
		admin := v1.Group("/admin")
		admin.Use(requireAuth, authMiddleware.RequireRoles(user.RoleAdmin))
		{
			admin.GET("/users", h.Admin.ListUsers)
			admin.PATCH("/users/:id/role", h.Admin.UpdateRole)
		}
	}

	return r
}
