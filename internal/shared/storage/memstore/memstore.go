// Package memstore 实现基于内存的 PersistentStore
//
// 用于 handler 层测试，不依赖外部 MongoDB。
// 语义与 mongostore 对齐：username/email 唯一约束返回 ErrDuplicate，
// Get* 不存在时返回 (nil, nil)，子串匹配不区分大小写。
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"modelagency/internal/shared/model"
	"modelagency/internal/shared/password"
	"modelagency/internal/shared/storage"
)

// Store 内存版 PersistentStore
type Store struct {
	mu       sync.RWMutex
	users    map[string]*model.User
	bookings map[string]*model.Booking
	admins   map[string]*model.Admin
}

// NewStore 创建内存存储实例
func NewStore() *Store {
	return &Store{
		users:    make(map[string]*model.User),
		bookings: make(map[string]*model.Booking),
		admins:   make(map[string]*model.Admin),
	}
}

// Close 无外部连接，直接返回
func (s *Store) Close() error { return nil }

// 编译期接口检查
var _ storage.PersistentStore = (*Store)(nil)

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func cloneUser(u *model.User) *model.User {
	c := *u
	if u.Skills != nil {
		c.Skills = append([]string(nil), u.Skills...)
	}
	if u.ModelPhotos != nil {
		c.ModelPhotos = append([]model.ModelPhoto(nil), u.ModelPhotos...)
	}
	return &c
}

func cloneBooking(b *model.Booking) *model.Booking {
	c := *b
	return &c
}

func cloneAdmin(a *model.Admin) *model.Admin {
	c := *a
	return &c
}

// ============================================================================
// UserStore
// ============================================================================

func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return storage.ErrDuplicate
		}
	}

	hashed, err := password.EnsureHashed(user.Password)
	if err != nil {
		return err
	}
	user.Password = hashed

	if _, exists := s.users[user.ID]; exists {
		return storage.ErrDuplicate
	}
	s.users[user.ID] = cloneUser(user)
	return nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (s *Store) GetUserByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == identifier || u.Email == identifier {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (s *Store) ListPublicUsers(ctx context.Context, f storage.PublicUserFilter) ([]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	excluded := make(map[string]bool, len(f.ExcludeIDs))
	for _, id := range f.ExcludeIDs {
		excluded[id] = true
	}

	results := []*model.User{}
	for _, u := range s.users {
		if u.IsDeleted || excluded[u.ID] {
			continue
		}
		if f.Type != "" && string(u.Type) != f.Type {
			continue
		}
		if len(f.Skills) > 0 && !anySkillMatch(u.Skills, f.Skills) {
			continue
		}
		if f.Availability != "" && string(u.Availability) != f.Availability {
			continue
		}
		if f.Location != "" && !containsFold(u.Location, f.Location) {
			continue
		}
		if f.Search != "" && !searchMatch(u, f.Search) {
			continue
		}
		results = append(results, cloneUser(u))
	}
	sortUsersByCreatedDesc(results)
	return results, nil
}

func anySkillMatch(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

func searchMatch(u *model.User, search string) bool {
	if containsFold(u.Username, search) || containsFold(u.BrandDesc, search) {
		return true
	}
	for _, skill := range u.Skills {
		if containsFold(skill, search) {
			return true
		}
	}
	return false
}

func sortUsersByCreatedDesc(users []*model.User) {
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
}

func (s *Store) SearchUsers(ctx context.Context, f storage.PageFilter) ([]*model.User, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := []*model.User{}
	for _, u := range s.users {
		if f.Query != "" && !containsFold(u.Username, f.Query) && !containsFold(u.Email, f.Query) {
			continue
		}
		matched = append(matched, cloneUser(u))
	}
	sortUsersByCreatedDesc(matched)

	total := int64(len(matched))
	matched = pageSlice(matched, f)
	return matched, total, nil
}

func pageSlice[T any](items []T, f storage.PageFilter) []T {
	skip := f.Skip()
	if skip >= len(items) {
		return []T{}
	}
	items = items[skip:]
	if f.Limit > 0 && len(items) > f.Limit {
		items = items[:f.Limit]
	}
	return items
}

func (s *Store) UpdateUser(ctx context.Context, id string, upd storage.UserUpdate) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	if upd.Username != nil {
		u.Username = *upd.Username
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.Password != nil {
		hashed, err := password.EnsureHashed(*upd.Password)
		if err != nil {
			return nil, err
		}
		u.Password = hashed
	}
	if upd.Type != nil {
		u.Type = *upd.Type
	}
	if upd.Contact != nil {
		u.Contact = *upd.Contact
	}
	if upd.Gender != nil {
		g := *upd.Gender
		u.Gender = &g
	}
	if upd.BrandDesc != nil {
		u.BrandDesc = *upd.BrandDesc
	}
	if upd.ModelPortfolio != nil {
		u.ModelPortfolio = *upd.ModelPortfolio
	}
	if upd.ModelCertificate != nil {
		u.ModelCertificate = *upd.ModelCertificate
	}
	if upd.Skills != nil {
		u.Skills = append([]string(nil), (*upd.Skills)...)
	}
	if upd.Experience != nil {
		u.Experience = *upd.Experience
	}
	if upd.Availability != nil {
		u.Availability = *upd.Availability
	}
	if upd.Location != nil {
		u.Location = *upd.Location
	}
	if upd.PricePerDay != nil {
		u.PricePerDay = *upd.PricePerDay
	}
	if upd.IsAdmin != nil {
		u.IsAdmin = *upd.IsAdmin
	}
	return cloneUser(u), nil
}

func (s *Store) SoftDeleteUser(ctx context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	now := time.Now()
	u.IsDeleted = true
	u.DeletedAt = &now
	return cloneUser(u), nil
}

func (s *Store) RestoreUser(ctx context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	u.IsDeleted = false
	u.DeletedAt = nil
	return cloneUser(u), nil
}

func (s *Store) AppendUserPhoto(ctx context.Context, id string, photo model.ModelPhoto) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	u.ModelPhotos = append(u.ModelPhotos, photo)
	return cloneUser(u), nil
}

func (s *Store) DistinctSkills(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := map[string]bool{}
	values := []string{}
	for _, u := range s.users {
		if u.IsDeleted {
			continue
		}
		for _, skill := range u.Skills {
			if skill != "" && !seen[skill] {
				seen[skill] = true
				values = append(values, skill)
			}
		}
	}
	sort.Strings(values)
	return values, nil
}

func (s *Store) DistinctLocations(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := map[string]bool{}
	values := []string{}
	for _, u := range s.users {
		if u.IsDeleted || u.Location == "" || seen[u.Location] {
			continue
		}
		seen[u.Location] = true
		values = append(values, u.Location)
	}
	sort.Strings(values)
	return values, nil
}

func (s *Store) CountUsersByType(ctx context.Context, userType model.UserType) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, u := range s.users {
		if u.Type == userType && !u.IsDeleted {
			n++
		}
	}
	return n, nil
}

func (s *Store) ListRecentUsers(ctx context.Context, limit int) ([]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := []*model.User{}
	for _, u := range s.users {
		users = append(users, cloneUser(u))
	}
	sortUsersByCreatedDesc(users)
	if len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

// ============================================================================
// BookingStore
// ============================================================================

func (s *Store) CreateBooking(ctx context.Context, booking *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bookings[booking.ID]; exists {
		return storage.ErrDuplicate
	}
	s.bookings[booking.ID] = cloneBooking(booking)
	return nil
}

func (s *Store) GetBookingByID(ctx context.Context, id string) (*model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if b, ok := s.bookings[id]; ok {
		return cloneBooking(b), nil
	}
	return nil, nil
}

func (s *Store) SearchBookings(ctx context.Context, f storage.PageFilter) ([]*model.Booking, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := []*model.Booking{}
	for _, b := range s.bookings {
		if f.Query != "" && !containsFold(b.BrandName, f.Query) && !containsFold(b.BrandEmail, f.Query) {
			continue
		}
		matched = append(matched, cloneBooking(b))
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	matched = pageSlice(matched, f)
	return matched, total, nil
}

func (s *Store) UpdateBooking(ctx context.Context, id string, upd storage.BookingUpdate) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if upd.Status != nil {
		b.Status = *upd.Status
	}
	if upd.Archived != nil {
		b.Archived = *upd.Archived
	}
	return cloneBooking(b), nil
}

func (s *Store) AcceptedModelIDs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := map[string]bool{}
	ids := []string{}
	for _, b := range s.bookings {
		if b.Status != model.BookingStatusAccepted || b.Archived {
			continue
		}
		if b.ModelID != "" && !seen[b.ModelID] {
			seen[b.ModelID] = true
			ids = append(ids, b.ModelID)
		}
	}
	return ids, nil
}

func (s *Store) CountBookings(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.bookings)), nil
}

func (s *Store) ListRecentBookings(ctx context.Context, limit int) ([]*model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bookings := []*model.Booking{}
	for _, b := range s.bookings {
		bookings = append(bookings, cloneBooking(b))
	}
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
	if len(bookings) > limit {
		bookings = bookings[:limit]
	}
	return bookings, nil
}

// ============================================================================
// AdminStore
// ============================================================================

func (s *Store) CreateAdmin(ctx context.Context, admin *model.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.admins {
		if a.Username == admin.Username || a.Email == admin.Email {
			return storage.ErrDuplicate
		}
	}

	hashed, err := password.EnsureHashed(admin.Password)
	if err != nil {
		return err
	}
	admin.Password = hashed

	if _, exists := s.admins[admin.ID]; exists {
		return storage.ErrDuplicate
	}
	s.admins[admin.ID] = cloneAdmin(admin)
	return nil
}

func (s *Store) GetAdminByID(ctx context.Context, id string) (*model.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.admins[id]; ok {
		return cloneAdmin(a), nil
	}
	return nil, nil
}

func (s *Store) GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.admins {
		if a.Username == username {
			return cloneAdmin(a), nil
		}
	}
	return nil, nil
}

func (s *Store) FindAdminByUsernameOrEmail(ctx context.Context, username, email string) (*model.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.admins {
		if a.Username == username || a.Email == email {
			return cloneAdmin(a), nil
		}
	}
	return nil, nil
}

func (s *Store) ListAdmins(ctx context.Context) ([]*model.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	admins := []*model.Admin{}
	for _, a := range s.admins {
		admins = append(admins, cloneAdmin(a))
	}
	sort.Slice(admins, func(i, j int) bool {
		return admins[i].CreatedAt.Before(admins[j].CreatedAt)
	})
	return admins, nil
}

func (s *Store) UpdateAdmin(ctx context.Context, id string, upd storage.AdminUpdate) (*model.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.admins[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if upd.FullName != nil {
		a.FullName = *upd.FullName
	}
	if upd.Role != nil {
		a.Role = *upd.Role
	}
	if upd.IsActive != nil {
		a.IsActive = *upd.IsActive
	}
	if upd.Password != nil {
		hashed, err := password.EnsureHashed(*upd.Password)
		if err != nil {
			return nil, err
		}
		a.Password = hashed
	}
	a.UpdatedAt = time.Now()
	return cloneAdmin(a), nil
}

func (s *Store) DeleteAdmin(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.admins[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.admins, id)
	return nil
}

func (s *Store) CountAdmins(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.admins)), nil
}
