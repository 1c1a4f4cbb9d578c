package mongostore

import (
	"context"

	"modelagency/internal/shared/model"
	"modelagency/internal/shared/storage"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ============================================================================
// BookingStore
// ============================================================================

func (s *Store) CreateBooking(ctx context.Context, booking *model.Booking) error {
	return insertOne(ctx, s.col(ColBookings), booking)
}

func (s *Store) GetBookingByID(ctx context.Context, id string) (*model.Booking, error) {
	return findOne[model.Booking](ctx, s.col(ColBookings), bson.D{{Key: "_id", Value: id}})
}

// SearchBookings 后台分页列表，关键字匹配 brand_name/brand_email
func (s *Store) SearchBookings(ctx context.Context, f storage.PageFilter) ([]*model.Booking, int64, error) {
	filter := bson.D{}
	if f.Query != "" {
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.D{ciSubstring("brand_name", f.Query)},
			bson.D{ciSubstring("brand_email", f.Query)},
		}})
	}

	total, err := s.col(ColBookings).CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, wrapError(err)
	}

	opts := options.Find().
		SetSkip(int64(f.Skip())).
		SetLimit(int64(f.Limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})
	bookings, err := findMany[model.Booking](ctx, s.col(ColBookings), filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// UpdateBooking 部分更新预约（状态流转 / 归档）
func (s *Store) UpdateBooking(ctx context.Context, id string, upd storage.BookingUpdate) (*model.Booking, error) {
	set := bson.D{}
	if upd.Status != nil {
		set = append(set, bson.E{Key: "status", Value: *upd.Status})
	}
	if upd.Archived != nil {
		set = append(set, bson.E{Key: "archived", Value: *upd.Archived})
	}

	if len(set) == 0 {
		booking, err := s.GetBookingByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if booking == nil {
			return nil, storage.ErrNotFound
		}
		return booking, nil
	}

	return updateFields[model.Booking](ctx, s.col(ColBookings), id, set)
}

// AcceptedModelIDs 返回被非归档 accepted 预约引用的模特 ID 集合
//
// 可用性规则的唯一数据源：状态改回 pending/completed/cancelled
// 或归档后，下一次查询立即反映，不做任何缓存。
func (s *Store) AcceptedModelIDs(ctx context.Context) ([]string, error) {
	filter := bson.D{
		{Key: "status", Value: model.BookingStatusAccepted},
		{Key: "archived", Value: bson.D{{Key: "$ne", Value: true}}},
	}
	bookings, err := findMany[model.Booking](ctx, s.col(ColBookings), filter)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(bookings))
	ids := []string{}
	for _, b := range bookings {
		if b.ModelID != "" && !seen[b.ModelID] {
			seen[b.ModelID] = true
			ids = append(ids, b.ModelID)
		}
	}
	return ids, nil
}

func (s *Store) CountBookings(ctx context.Context) (int64, error) {
	n, err := s.col(ColBookings).CountDocuments(ctx, bson.D{})
	return n, wrapError(err)
}

// ListRecentBookings 最近创建的预约，按创建时间倒序
func (s *Store) ListRecentBookings(ctx context.Context, limit int) ([]*model.Booking, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	return findMany[model.Booking](ctx, s.col(ColBookings), bson.D{}, opts)
}
