package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/user"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// userRepository 用户仓储实现(PostgreSQL)
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

// Create 创建用户
func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	model := toUserModel(u)

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		// 邮箱或(provider,subject)唯一索引冲突,并发首次登录时触发
		if isDuplicateError(err) {
			return user.ErrEmailDuplicate
		}
		return apperrors.Wrap(err, "创建用户失败")
	}

	// 回填数据库生成的字段
	u.ID = model.ID
	u.CreatedAt = model.CreatedAt
	return nil
}

// FindByID 根据ID查找用户
func (r *userRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	var model UserModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "查询用户失败")
	}
	return toUserEntity(&model), nil
}

// FindByEmail 根据邮箱查找用户
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserModel
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "查询用户失败")
	}
	return toUserEntity(&model), nil
}

// FindByOAuth 根据(provider, subject)查找用户
func (r *userRepository) FindByOAuth(ctx context.Context, provider, subject string) (*user.User, error) {
	var model UserModel
	err := r.db.WithContext(ctx).
		Where("oauth_provider = ? AND oauth_subject = ?", provider, subject).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "查询用户失败")
	}
	return toUserEntity(&model), nil
}

// List 查询全部用户,按创建时间升序
func (r *userRepository) List(ctx context.Context) ([]*user.User, error) {
	var models []UserModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询用户列表失败")
	}

	users := make([]*user.User, len(models))
	for i := range models {
		users[i] = toUserEntity(&models[i])
	}
	return users, nil
}

// UpdateRole 更新用户角色
func (r *userRepository) UpdateRole(ctx context.Context, id string, role user.Role) (*user.User, error) {
	result := r.db.WithContext(ctx).Model(&UserModel{}).
		Where("id = ?", id).
		Update("role", string(role))
	if result.Error != nil {
		return nil, apperrors.Wrap(result.Error, "更新用户角色失败")
	}
	if result.RowsAffected == 0 {
		return nil, user.ErrUserNotFound
	}

	return r.FindByID(ctx, id)
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toUserEntity GORM模型 → 领域实体
func toUserEntity(model *UserModel) *user.User {
	u := &user.User{
		ID:        model.ID,
		Email:     model.Email,
		Name:      model.Name,
		Role:      user.Role(model.Role),
		CreatedAt: model.CreatedAt,
	}
	if model.OAuthProvider != nil {
		u.OAuthProvider = *model.OAuthProvider
	}
	if model.OAuthSubject != nil {
		u.OAuthSubject = *model.OAuthSubject
	}
	return u
}

// toUserModel 领域实体 → GORM模型
// provider/subject为空时存NULL,避免撞组合唯一索引
func toUserModel(u *user.User) *UserModel {
	model := &UserModel{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  string(u.Role),
	}
	if u.OAuthProvider != "" {
		model.OAuthProvider = &u.OAuthProvider
	}
	if u.OAuthSubject != "" {
		model.OAuthSubject = &u.OAuthSubject
	}
	return model
}
