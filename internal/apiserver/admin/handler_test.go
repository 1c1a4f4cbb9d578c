package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"modelagency/internal/apiserver/auth"
	"modelagency/internal/shared/model"
	"modelagency/internal/shared/password"
	"modelagency/internal/shared/storage/memstore"
)

// fakeUploader 内存照片上传器
type fakeUploader struct {
	objects map[string][]byte
}

func (f *fakeUploader) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	f.objects[key] = data
	return nil
}

// testEnv 组装完整后台：memstore + 认证 + 路由
type testEnv struct {
	store      *memstore.Store
	mux        *http.ServeMux
	photos     *fakeUploader
	adminTok   string
	superTok   string
	adminID    string
	superadmID string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memstore.NewStore()
	cfg := auth.Config{JWTSecret: "test-secret", TokenTTL: time.Hour}
	ctx := context.Background()

	hashed, _ := password.Hash("pw")
	regular := &model.Admin{
		ID: "adm-regular", Username: "ops", Email: "ops@example.com", Password: hashed,
		Role: model.AdminRoleAdmin, IsActive: true, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	super := &model.Admin{
		ID: "adm-super", Username: "root", Email: "root@example.com", Password: hashed,
		Role: model.AdminRoleSuperadmin, IsActive: true, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	for _, a := range []*model.Admin{regular, super} {
		if err := store.CreateAdmin(ctx, a); err != nil {
			t.Fatalf("seed admin: %v", err)
		}
	}

	adminTok, err := auth.GenerateToken(cfg, regular)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	superTok, err := auth.GenerateToken(cfg, super)
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	photos := &fakeUploader{}
	authn := auth.NewAuthenticator(store, cfg)
	h := NewHandler(store, photos, authn)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	return &testEnv{
		store: store, mux: mux, photos: photos,
		adminTok: adminTok, superTok: superTok,
		adminID: regular.ID, superadmID: super.ID,
	}
}

// do 发送带令牌的 JSON 请求
func (e *testEnv) do(t *testing.T, method, target, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) seedUser(t *testing.T, id, username string, userType model.UserType, price float64) *model.User {
	t.Helper()
	user := &model.User{
		ID: id, Username: username, Email: username + "@example.com", Password: "pw",
		Type: userType, PricePerDay: price, CreatedAt: time.Now(),
	}
	if err := e.store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func (e *testEnv) seedBooking(t *testing.T, id, modelID string, status model.BookingStatus) *model.Booking {
	t.Helper()
	b := &model.Booking{
		ID: id, ModelID: modelID, BrandName: "Acme", BrandEmail: "a@x.com",
		StartDate: time.Now(), Days: 2, TotalPrice: 200, Status: status, CreatedAt: time.Now(),
	}
	if err := e.store.CreateBooking(context.Background(), b); err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return b
}

func TestStats(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser(t, "usr-1", "mia", model.UserTypeModel, 100)
	e.seedUser(t, "usr-2", "acme", model.UserTypeBrand, 0)
	e.seedBooking(t, "bkg-1", "usr-1", model.BookingStatusPending)

	rec := e.do(t, http.MethodGet, "/api/admin/stats", e.adminTok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data struct {
			TotalBrands    int64                    `json:"totalBrands"`
			TotalModels    int64                    `json:"totalModels"`
			TotalBookings  int64                    `json:"totalBookings"`
			RecentSignups  []map[string]interface{} `json:"recentSignups"`
			RecentBookings []map[string]interface{} `json:"recentBookings"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.TotalBrands != 1 || resp.Data.TotalModels != 1 || resp.Data.TotalBookings != 1 {
		t.Errorf("counts = %+v", resp.Data)
	}
	if len(resp.Data.RecentSignups) != 2 || len(resp.Data.RecentBookings) != 1 {
		t.Errorf("recent lists = %d signups, %d bookings", len(resp.Data.RecentSignups), len(resp.Data.RecentBookings))
	}
	mdl, _ := resp.Data.RecentBookings[0]["model"].(map[string]interface{})
	if mdl == nil || mdl["username"] != "mia" {
		t.Errorf("booking model summary = %v", mdl)
	}
}

func TestStats_Unauthenticated(t *testing.T) {
	e := newTestEnv(t)
	if rec := e.do(t, http.MethodGet, "/api/admin/stats", "", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestUserCRUDFlow(t *testing.T) {
	e := newTestEnv(t)

	var userID string
	t.Run("创建用户", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, "/api/admin/users", e.adminTok, map[string]interface{}{
			"username": "mia", "email": "mia@example.com", "password": "secret", "type": "model",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201, body: %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			User model.User `json:"user"`
		}
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		userID = resp.User.ID
		if userID == "" {
			t.Fatal("missing user id")
		}
	})

	t.Run("创建缺少字段", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, "/api/admin/users", e.adminTok, map[string]interface{}{
			"username": "bob", "type": "model",
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("重复邮箱", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, "/api/admin/users", e.adminTok, map[string]interface{}{
			"username": "other", "email": "mia@example.com", "password": "x", "type": "brand",
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("详情", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/api/admin/users/"+userID, e.adminTok, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("详情不存在", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/api/admin/users/usr-missing", e.adminTok, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("部分更新", func(t *testing.T) {
		rec := e.do(t, http.MethodPut, "/api/admin/users/"+userID, e.adminTok, map[string]interface{}{
			"location": "Paris", "price_per_day": 180,
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			User model.User `json:"user"`
		}
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		if resp.User.Location != "Paris" || resp.User.PricePerDay != 180 {
			t.Errorf("updated user = %+v", resp.User)
		}
		if resp.User.Username != "mia" {
			t.Errorf("untouched field changed: %s", resp.User.Username)
		}
	})

	t.Run("软删除与恢复", func(t *testing.T) {
		rec := e.do(t, http.MethodDelete, "/api/admin/users/"+userID, e.adminTok, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("delete status = %d, want 200", rec.Code)
		}
		user, _ := e.store.GetUserByID(context.Background(), userID)
		if !user.IsDeleted || user.DeletedAt == nil {
			t.Errorf("user not soft-deleted: %+v", user)
		}

		rec = e.do(t, http.MethodPost, "/api/admin/users/"+userID+"/restore", e.adminTok, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("restore status = %d, want 200", rec.Code)
		}
		user, _ = e.store.GetUserByID(context.Background(), userID)
		if user.IsDeleted || user.DeletedAt != nil {
			t.Errorf("user not restored: %+v", user)
		}
	})
}

func TestListUsers_SearchAndPagination(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser(t, "usr-1", "mia", model.UserTypeModel, 100)
	e.seedUser(t, "usr-2", "miriam", model.UserTypeModel, 100)
	e.seedUser(t, "usr-3", "acme", model.UserTypeBrand, 0)

	t.Run("关键字搜索", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/api/admin/users?q=mi", e.adminTok, nil)
		var resp struct {
			Users []model.User `json:"users"`
			Total int64        `json:"total"`
		}
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		if resp.Total != 2 || len(resp.Users) != 2 {
			t.Errorf("total = %d, users = %d, want 2/2", resp.Total, len(resp.Users))
		}
	})

	t.Run("分页", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/api/admin/users?page=2&limit=2", e.adminTok, nil)
		var resp struct {
			Users []model.User `json:"users"`
			Total int64        `json:"total"`
		}
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		if resp.Total != 3 || len(resp.Users) != 1 {
			t.Errorf("total = %d, page2 = %d users, want 3/1", resp.Total, len(resp.Users))
		}
	})

	t.Run("包含软删除用户", func(t *testing.T) {
		if _, err := e.store.SoftDeleteUser(context.Background(), "usr-1"); err != nil {
			t.Fatalf("soft delete: %v", err)
		}
		rec := e.do(t, http.MethodGet, "/api/admin/users", e.adminTok, nil)
		var resp struct {
			Total int64 `json:"total"`
		}
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		if resp.Total != 3 {
			t.Errorf("total = %d, want 3 including soft-deleted", resp.Total)
		}
	})
}

func TestBookingAdminFlow(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser(t, "usr-1", "mia", model.UserTypeModel, 100)
	e.seedBooking(t, "bkg-1", "usr-1", model.BookingStatusPending)

	t.Run("列表含模特摘要", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/api/admin/bookings", e.adminTok, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var resp struct {
			Bookings []map[string]interface{} `json:"bookings"`
			Total    int64                    `json:"total"`
		}
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		if resp.Total != 1 || len(resp.Bookings) != 1 {
			t.Fatalf("total = %d, bookings = %d", resp.Total, len(resp.Bookings))
		}
		mdl, _ := resp.Bookings[0]["model"].(map[string]interface{})
		if mdl == nil || mdl["username"] != "mia" {
			t.Errorf("model summary = %v", mdl)
		}
	})

	t.Run("状态流转", func(t *testing.T) {
		rec := e.do(t, http.MethodPut, "/api/admin/bookings/bkg-1", e.adminTok, map[string]interface{}{
			"status": "accepted",
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
		}
		b, _ := e.store.GetBookingByID(context.Background(), "bkg-1")
		if b.Status != model.BookingStatusAccepted {
			t.Errorf("booking status = %s, want accepted", b.Status)
		}
	})

	t.Run("非法状态", func(t *testing.T) {
		rec := e.do(t, http.MethodPut, "/api/admin/bookings/bkg-1", e.adminTok, map[string]interface{}{
			"status": "teleported",
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("归档", func(t *testing.T) {
		rec := e.do(t, http.MethodPut, "/api/admin/bookings/bkg-1", e.adminTok, map[string]interface{}{
			"archived": true,
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		b, _ := e.store.GetBookingByID(context.Background(), "bkg-1")
		if !b.Archived {
			t.Error("booking not archived")
		}
	})

	t.Run("空更新", func(t *testing.T) {
		rec := e.do(t, http.MethodPut, "/api/admin/bookings/bkg-1", e.adminTok, map[string]interface{}{})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("预约不存在", func(t *testing.T) {
		rec := e.do(t, http.MethodPut, "/api/admin/bookings/bkg-missing", e.adminTok, map[string]interface{}{
			"archived": true,
		})
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestAdminAccountRoleGate(t *testing.T) {
	e := newTestEnv(t)

	// admin 角色在所有 /admins 路由上一律 403
	routes := []struct {
		method, target string
		body           interface{}
	}{
		{http.MethodGet, "/api/admin/admins", nil},
		{http.MethodPost, "/api/admin/admins", map[string]interface{}{"username": "x", "email": "x@x.com", "password": "x"}},
		{http.MethodPut, "/api/admin/admins/" + e.superadmID, map[string]interface{}{"fullName": "X"}},
		{http.MethodDelete, "/api/admin/admins/" + e.adminID, nil},
	}
	for _, rt := range routes {
		if rec := e.do(t, rt.method, rt.target, e.adminTok, rt.body); rec.Code != http.StatusForbidden {
			t.Errorf("%s %s: status = %d, want 403", rt.method, rt.target, rec.Code)
		}
	}

	// superadmin 可以列出
	if rec := e.do(t, http.MethodGet, "/api/admin/admins", e.superTok, nil); rec.Code != http.StatusOK {
		t.Errorf("superadmin list status = %d, want 200", rec.Code)
	}
}

func TestAdminAccountCRUD(t *testing.T) {
	e := newTestEnv(t)

	var newID string
	t.Run("创建", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, "/api/admin/admins", e.superTok, map[string]interface{}{
			"username": "carol", "email": "carol@example.com", "password": "pw123", "fullName": "Carol",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201, body: %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Admin struct {
				ID       string `json:"id"`
				Role     string `json:"role"`
				Password string `json:"password"`
			} `json:"admin"`
		}
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		newID = resp.Admin.ID
		if resp.Admin.Role != "admin" {
			t.Errorf("default role = %q, want admin", resp.Admin.Role)
		}
		if resp.Admin.Password != "" {
			t.Error("password leaked in create response")
		}
	})

	t.Run("重复用户名或邮箱", func(t *testing.T) {
		rec := e.do(t, http.MethodPost, "/api/admin/admins", e.superTok, map[string]interface{}{
			"username": "carol", "email": "other@example.com", "password": "pw",
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("更新角色与状态", func(t *testing.T) {
		rec := e.do(t, http.MethodPut, "/api/admin/admins/"+newID, e.superTok, map[string]interface{}{
			"role": "superadmin", "isActive": false,
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
		}
		admin, _ := e.store.GetAdminByID(context.Background(), newID)
		if admin.Role != model.AdminRoleSuperadmin || admin.IsActive {
			t.Errorf("admin = %+v", admin)
		}
	})

	t.Run("更新不存在", func(t *testing.T) {
		rec := e.do(t, http.MethodPut, "/api/admin/admins/adm-missing", e.superTok, map[string]interface{}{
			"fullName": "X",
		})
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("禁止删除自己", func(t *testing.T) {
		rec := e.do(t, http.MethodDelete, "/api/admin/admins/"+e.superadmID, e.superTok, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("删除他人", func(t *testing.T) {
		rec := e.do(t, http.MethodDelete, "/api/admin/admins/"+newID, e.superTok, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		admin, _ := e.store.GetAdminByID(context.Background(), newID)
		if admin != nil {
			t.Error("admin still present after delete")
		}
	})
}

func TestUploadUserPhoto(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser(t, "usr-1", "mia", model.UserTypeModel, 100)
	e.seedUser(t, "usr-2", "acme", model.UserTypeBrand, 0)

	doUpload := func(userID, field string) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, _ := mw.CreateFormFile(field, "cover.jpg")
		fw.Write([]byte("jpeg-bytes"))
		mw.WriteField("caption", "runway 2026")
		mw.Close()

		req := httptest.NewRequest(http.MethodPost, "/api/admin/users/"+userID+"/photos", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+e.adminTok)
		rec := httptest.NewRecorder()
		e.mux.ServeHTTP(rec, req)
		return rec
	}

	t.Run("上传成功", func(t *testing.T) {
		rec := doUpload("usr-1", "photo")
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201, body: %s", rec.Code, rec.Body.String())
		}
		if len(e.photos.objects) != 1 {
			t.Fatalf("stored objects = %d, want 1", len(e.photos.objects))
		}
		user, _ := e.store.GetUserByID(context.Background(), "usr-1")
		if len(user.ModelPhotos) != 1 {
			t.Fatalf("model photos = %d, want 1", len(user.ModelPhotos))
		}
		if user.ModelPhotos[0].Caption != "runway 2026" {
			t.Errorf("caption = %q", user.ModelPhotos[0].Caption)
		}
	})

	t.Run("缺少文件字段", func(t *testing.T) {
		if rec := doUpload("usr-1", "wrong-field"); rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("品牌账号不能传照片", func(t *testing.T) {
		if rec := doUpload("usr-2", "photo"); rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("用户不存在", func(t *testing.T) {
		if rec := doUpload("usr-missing", "photo"); rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}
