package postgres

import (
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/library/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2 + PostgreSQL
//    选择Postgres的硬性原因：loans表的部分唯一索引（WHERE status='OUT'）
//    和books.tags的text[]列,MySQL都不支持
// 2. TranslateError开启后,唯一索引冲突统一转成gorm.ErrDuplicatedKey
// 3. 开发环境打印SQL,生产环境关闭
// 4. AutoMigrate建表（生产环境应换成版本化迁移脚本）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.Database.DSN()

	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
// AutoMigrate只会创建表、添加字段和索引,不会删除或修改现有字段
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&BookModel{},
		&LoanModel{},
	)
}

// UserModel GORM用户模型
// 设计说明:
// 1. infrastructure层的数据模型,domain/user/entity.go是领域实体,Repository负责转换
// 2. 主键UUID由数据库生成（gen_random_uuid）,GORM通过RETURNING回填
// 3. (oauth_provider, oauth_subject)组合唯一;两列均为NULL的行互不冲突
type UserModel struct {
	ID            string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email         string    `gorm:"size:255;uniqueIndex;not null"`
	Name          string    `gorm:"size:255;not null"`
	Role          string    `gorm:"size:20;not null;default:'MEMBER'"`
	OAuthProvider *string   `gorm:"size:50;index:uq_users_oauth_identity,unique"`
	OAuthSubject  *string   `gorm:"size:255;index:uq_users_oauth_identity,unique"`
	CreatedAt     time.Time `gorm:"not null;default:now()"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// BookModel GORM图书模型
// 设计说明:
// 1. ISBN可空,非空时唯一（Postgres唯一索引允许多个NULL）
// 2. Tags用text[]存储,pq.StringArray负责扫描/序列化
// 3. Status是派生字段,由借阅操作维护
type BookModel struct {
	ID            string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title         string         `gorm:"size:500;not null"`
	Author        string         `gorm:"size:255;not null"`
	ISBN          *string        `gorm:"size:20;uniqueIndex"`
	PublishedYear *int           ``
	Description   *string        `gorm:"type:text"`
	Tags          pq.StringArray `gorm:"type:text[]"`
	Status        string         `gorm:"size:20;not null;default:'AVAILABLE'"`
	CreatedAt     time.Time      `gorm:"not null;default:now();index"`
	UpdatedAt     time.Time      `gorm:"not null;default:now()"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// LoanModel GORM借阅模型
// 设计说明:
// 1. uq_active_loan_per_book: book_id上的部分唯一索引,仅约束status='OUT'的行
//    历史RETURNED记录不限数量,但每本书最多一条在借记录
//    这是并发借出的数据库级兜底（应用级行锁是第一道防线）
// 2. 外键RESTRICT:删除图书前必须先清理其借阅记录
type LoanModel struct {
	ID           string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BookID       string     `gorm:"type:uuid;not null;index:uq_active_loan_per_book,unique,where:status = 'OUT'"`
	UserID       string     `gorm:"type:uuid;not null;index"`
	CheckedOutAt time.Time  `gorm:"not null;index"`
	ReturnedAt   *time.Time ``
	Status       string     `gorm:"size:20;not null;default:'OUT'"`

	Book *BookModel `gorm:"foreignKey:BookID;references:ID;constraint:OnDelete:RESTRICT"`
	User *UserModel `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:RESTRICT"`
}

// TableName 指定表名
func (LoanModel) TableName() string {
	return "loans"
}
