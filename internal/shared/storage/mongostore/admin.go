package mongostore

import (
	"context"
	"time"

	"modelagency/internal/shared/model"
	"modelagency/internal/shared/password"
	"modelagency/internal/shared/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ============================================================================
// AdminStore
// ============================================================================

// CreateAdmin 创建管理员
// 写入前哈希密码，与用户一致：登录路径始终做 bcrypt 校验
func (s *Store) CreateAdmin(ctx context.Context, admin *model.Admin) error {
	hashed, err := password.EnsureHashed(admin.Password)
	if err != nil {
		return err
	}
	admin.Password = hashed
	return insertOne(ctx, s.col(ColAdmins), admin)
}

func (s *Store) GetAdminByID(ctx context.Context, id string) (*model.Admin, error) {
	return findOne[model.Admin](ctx, s.col(ColAdmins), bson.D{{Key: "_id", Value: id}})
}

func (s *Store) GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error) {
	return findOne[model.Admin](ctx, s.col(ColAdmins), bson.D{{Key: "username", Value: username}})
}

// FindAdminByUsernameOrEmail 创建前的重复预检查
func (s *Store) FindAdminByUsernameOrEmail(ctx context.Context, username, email string) (*model.Admin, error) {
	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "username", Value: username}},
		bson.D{{Key: "email", Value: email}},
	}}}
	return findOne[model.Admin](ctx, s.col(ColAdmins), filter)
}

func (s *Store) ListAdmins(ctx context.Context) ([]*model.Admin, error) {
	return findMany[model.Admin](ctx, s.col(ColAdmins), bson.D{})
}

// UpdateAdmin 部分更新管理员，始终刷新 updated_at
func (s *Store) UpdateAdmin(ctx context.Context, id string, upd storage.AdminUpdate) (*model.Admin, error) {
	set := bson.D{{Key: "updated_at", Value: time.Now()}}
	if upd.FullName != nil {
		set = append(set, bson.E{Key: "full_name", Value: *upd.FullName})
	}
	if upd.Role != nil {
		set = append(set, bson.E{Key: "role", Value: *upd.Role})
	}
	if upd.IsActive != nil {
		set = append(set, bson.E{Key: "is_active", Value: *upd.IsActive})
	}
	if upd.Password != nil {
		hashed, err := password.EnsureHashed(*upd.Password)
		if err != nil {
			return nil, err
		}
		set = append(set, bson.E{Key: "password", Value: hashed})
	}
	return updateFields[model.Admin](ctx, s.col(ColAdmins), id, set)
}

// DeleteAdmin 硬删除
func (s *Store) DeleteAdmin(ctx context.Context, id string) error {
	return deleteByID(ctx, s.col(ColAdmins), id)
}

func (s *Store) CountAdmins(ctx context.Context) (int64, error) {
	n, err := s.col(ColAdmins).CountDocuments(ctx, bson.D{})
	return n, wrapError(err)
}
