package mongostore

import (
	"context"
	"time"

	"modelagency/internal/shared/model"
	"modelagency/internal/shared/password"
	"modelagency/internal/shared/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ============================================================================
// UserStore
// ============================================================================

// CreateUser 创建用户
// 写入前哈希密码（已哈希的值原样保留），等价于 pre-save hook
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	hashed, err := password.EnsureHashed(user.Password)
	if err != nil {
		return err
	}
	user.Password = hashed
	return insertOne(ctx, s.col(ColUsers), user)
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return findOne[model.User](ctx, s.col(ColUsers), bson.D{{Key: "_id", Value: id}})
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return findOne[model.User](ctx, s.col(ColUsers), bson.D{{Key: "email", Value: email}})
}

// GetUserByIdentifier 按用户名或邮箱查找（登录用）
func (s *Store) GetUserByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "username", Value: identifier}},
		bson.D{{Key: "email", Value: identifier}},
	}}}
	return findOne[model.User](ctx, s.col(ColUsers), filter)
}

// ListPublicUsers 公开列表查询
//
// 提供的条件做合取，缺省条件不参与过滤；软删除用户永远排除。
// ExcludeIDs 由调用方从预约数据推导（可用性规则），这里只做 $nin 排除。
// 未知的 skills/location 值自然得到空结果，不报错。
func (s *Store) ListPublicUsers(ctx context.Context, f storage.PublicUserFilter) ([]*model.User, error) {
	filter := bson.D{
		{Key: "is_deleted", Value: bson.D{{Key: "$ne", Value: true}}},
	}

	if f.Type != "" {
		filter = append(filter, bson.E{Key: "type", Value: f.Type})
	}
	if len(f.Skills) > 0 {
		filter = append(filter, bson.E{Key: "skills", Value: bson.D{{Key: "$in", Value: f.Skills}}})
	}
	if f.Availability != "" {
		filter = append(filter, bson.E{Key: "availability", Value: f.Availability})
	}
	if f.Location != "" {
		filter = append(filter, ciSubstring("location", f.Location))
	}
	if f.Search != "" {
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.D{ciSubstring("username", f.Search)},
			bson.D{ciSubstring("brand_desc", f.Search)},
			bson.D{ciSubstring("skills", f.Search)},
		}})
	}
	if len(f.ExcludeIDs) > 0 {
		filter = append(filter, bson.E{Key: "_id", Value: bson.D{{Key: "$nin", Value: f.ExcludeIDs}}})
	}

	return findMany[model.User](ctx, s.col(ColUsers), filter)
}

// SearchUsers 后台分页列表，关键字匹配 username/email
func (s *Store) SearchUsers(ctx context.Context, f storage.PageFilter) ([]*model.User, int64, error) {
	filter := bson.D{}
	if f.Query != "" {
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.D{ciSubstring("username", f.Query)},
			bson.D{ciSubstring("email", f.Query)},
		}})
	}

	total, err := s.col(ColUsers).CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, wrapError(err)
	}

	opts := options.Find().
		SetSkip(int64(f.Skip())).
		SetLimit(int64(f.Limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})
	users, err := findMany[model.User](ctx, s.col(ColUsers), filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// UpdateUser 部分更新用户，返回更新后的记录
// 密码字段写入前经过 EnsureHashed，重复提交已哈希值不会二次哈希
func (s *Store) UpdateUser(ctx context.Context, id string, upd storage.UserUpdate) (*model.User, error) {
	set := bson.D{}
	if upd.Username != nil {
		set = append(set, bson.E{Key: "username", Value: *upd.Username})
	}
	if upd.Email != nil {
		set = append(set, bson.E{Key: "email", Value: *upd.Email})
	}
	if upd.Password != nil {
		hashed, err := password.EnsureHashed(*upd.Password)
		if err != nil {
			return nil, err
		}
		set = append(set, bson.E{Key: "password", Value: hashed})
	}
	if upd.Type != nil {
		set = append(set, bson.E{Key: "type", Value: *upd.Type})
	}
	if upd.Contact != nil {
		set = append(set, bson.E{Key: "contact", Value: *upd.Contact})
	}
	if upd.Gender != nil {
		set = append(set, bson.E{Key: "gender", Value: *upd.Gender})
	}
	if upd.BrandDesc != nil {
		set = append(set, bson.E{Key: "brand_desc", Value: *upd.BrandDesc})
	}
	if upd.ModelPortfolio != nil {
		set = append(set, bson.E{Key: "model_portfolio", Value: *upd.ModelPortfolio})
	}
	if upd.ModelCertificate != nil {
		set = append(set, bson.E{Key: "model_certificate", Value: *upd.ModelCertificate})
	}
	if upd.Skills != nil {
		set = append(set, bson.E{Key: "skills", Value: *upd.Skills})
	}
	if upd.Experience != nil {
		set = append(set, bson.E{Key: "experience", Value: *upd.Experience})
	}
	if upd.Availability != nil {
		set = append(set, bson.E{Key: "availability", Value: *upd.Availability})
	}
	if upd.Location != nil {
		set = append(set, bson.E{Key: "location", Value: *upd.Location})
	}
	if upd.PricePerDay != nil {
		set = append(set, bson.E{Key: "price_per_day", Value: *upd.PricePerDay})
	}
	if upd.IsAdmin != nil {
		set = append(set, bson.E{Key: "is_admin", Value: *upd.IsAdmin})
	}

	if len(set) == 0 {
		user, err := s.GetUserByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, storage.ErrNotFound
		}
		return user, nil
	}

	return updateFields[model.User](ctx, s.col(ColUsers), id, set)
}

// SoftDeleteUser 标记删除
func (s *Store) SoftDeleteUser(ctx context.Context, id string) (*model.User, error) {
	return updateFields[model.User](ctx, s.col(ColUsers), id, bson.D{
		{Key: "is_deleted", Value: true},
		{Key: "deleted_at", Value: time.Now()},
	})
}

// RestoreUser 撤销软删除
func (s *Store) RestoreUser(ctx context.Context, id string) (*model.User, error) {
	return updateFields[model.User](ctx, s.col(ColUsers), id, bson.D{
		{Key: "is_deleted", Value: false},
		{Key: "deleted_at", Value: nil},
	})
}

// AppendUserPhoto 追加一张作品集照片
func (s *Store) AppendUserPhoto(ctx context.Context, id string, photo model.ModelPhoto) (*model.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var result model.User
	err := s.col(ColUsers).FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$push", Value: bson.D{{Key: "model_photos", Value: photo}}}},
		opts,
	).Decode(&result)
	if err != nil {
		return nil, wrapError(err)
	}
	return &result, nil
}

// DistinctSkills 非删除用户的去重技能列表，过滤空值
func (s *Store) DistinctSkills(ctx context.Context) ([]string, error) {
	return s.distinctStrings(ctx, "skills")
}

// DistinctLocations 非删除用户的去重地区列表，过滤空值
func (s *Store) DistinctLocations(ctx context.Context) ([]string, error) {
	return s.distinctStrings(ctx, "location")
}

// distinctStrings 在非删除用户上做 distinct，只保留非空字符串
func (s *Store) distinctStrings(ctx context.Context, field string) ([]string, error) {
	filter := bson.D{{Key: "is_deleted", Value: bson.D{{Key: "$ne", Value: true}}}}
	var raw []interface{}
	if err := s.col(ColUsers).Distinct(ctx, field, filter).Decode(&raw); err != nil {
		return nil, wrapError(err)
	}

	values := []string{}
	for _, v := range raw {
		if str, ok := v.(string); ok && str != "" {
			values = append(values, str)
		}
	}
	return values, nil
}

// CountUsersByType 按类型统计非删除用户数
func (s *Store) CountUsersByType(ctx context.Context, userType model.UserType) (int64, error) {
	filter := bson.D{
		{Key: "type", Value: userType},
		{Key: "is_deleted", Value: bson.D{{Key: "$ne", Value: true}}},
	}
	n, err := s.col(ColUsers).CountDocuments(ctx, filter)
	return n, wrapError(err)
}

// ListRecentUsers 最近注册的用户，按创建时间倒序
func (s *Store) ListRecentUsers(ctx context.Context, limit int) ([]*model.User, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	return findMany[model.User](ctx, s.col(ColUsers), bson.D{}, opts)
}
