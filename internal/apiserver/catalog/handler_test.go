package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"modelagency/internal/shared/model"
	"modelagency/internal/shared/objstore"
	"modelagency/internal/shared/storage"
	"modelagency/internal/shared/storage/memstore"
)

func seedModel(t *testing.T, store *memstore.Store, id, username string, skills []string, location string, price float64) *model.User {
	t.Helper()
	user := &model.User{
		ID:          id,
		Username:    username,
		Email:       username + "@example.com",
		Password:    "pw",
		Type:        model.UserTypeModel,
		Skills:      skills,
		Location:    location,
		PricePerDay: price,
		CreatedAt:   time.Now(),
	}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func listUsers(t *testing.T, h *Handler, query string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/users"+query, nil)
	rec := httptest.NewRecorder()
	h.ListUsers(rec, req)
	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return rec.Code, resp
}

func usernames(resp map[string]interface{}) []string {
	var names []string
	users, _ := resp["users"].([]interface{})
	for _, u := range users {
		m, _ := u.(map[string]interface{})
		names = append(names, m["username"].(string))
	}
	return names
}

func TestListUsers_AvailabilityRule(t *testing.T) {
	store := memstore.NewStore()
	h := NewHandler(store, store, nil)
	ctx := context.Background()

	seedModel(t, store, "usr-1", "mia", []string{"runway"}, "Paris", 100)
	seedModel(t, store, "usr-2", "zoe", []string{"editorial"}, "Milan", 200)

	booking := &model.Booking{
		ID: "bkg-1", ModelID: "usr-1", BrandName: "Acme", BrandEmail: "a@x.com",
		StartDate: time.Now(), Days: 2, TotalPrice: 200,
		Status: model.BookingStatusAccepted, CreatedAt: time.Now(),
	}
	if err := store.CreateBooking(ctx, booking); err != nil {
		t.Fatalf("create booking: %v", err)
	}

	t.Run("被接受预约的模特不出现", func(t *testing.T) {
		code, resp := listUsers(t, h, "")
		if code != http.StatusOK {
			t.Fatalf("status = %d, want 200", code)
		}
		names := usernames(resp)
		if len(names) != 1 || names[0] != "zoe" {
			t.Errorf("users = %v, want [zoe]", names)
		}
	})

	t.Run("状态回退后重新出现", func(t *testing.T) {
		pending := model.BookingStatusPending
		if _, err := store.UpdateBooking(ctx, "bkg-1", storage.BookingUpdate{Status: &pending}); err != nil {
			t.Fatalf("update booking: %v", err)
		}
		_, resp := listUsers(t, h, "")
		if names := usernames(resp); len(names) != 2 {
			t.Errorf("users = %v, want both models", names)
		}
	})

	t.Run("归档的接受预约不占用", func(t *testing.T) {
		accepted := model.BookingStatusAccepted
		archived := true
		if _, err := store.UpdateBooking(ctx, "bkg-1", storage.BookingUpdate{Status: &accepted, Archived: &archived}); err != nil {
			t.Fatalf("update booking: %v", err)
		}
		_, resp := listUsers(t, h, "")
		if names := usernames(resp); len(names) != 2 {
			t.Errorf("users = %v, want both models", names)
		}
	})
}

func TestListUsers_FiltersAndFacets(t *testing.T) {
	store := memstore.NewStore()
	h := NewHandler(store, store, nil)

	seedModel(t, store, "usr-1", "mia", []string{"runway", "editorial"}, "Paris", 100)
	seedModel(t, store, "usr-2", "zoe", []string{"commercial"}, "Milan", 200)
	brand := &model.User{
		ID: "usr-3", Username: "Acme", Email: "acme@example.com", Password: "pw",
		Type: model.UserTypeBrand, BrandDesc: "fashion house", CreatedAt: time.Now(),
	}
	if err := store.CreateUser(context.Background(), brand); err != nil {
		t.Fatalf("create brand: %v", err)
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"无过滤返回全部", "", []string{"mia", "zoe", "Acme"}},
		{"按类型过滤", "?type=model", []string{"mia", "zoe"}},
		{"按技能过滤", "?skills=runway", []string{"mia"}},
		{"技能任一匹配", "?skills=runway,commercial", []string{"mia", "zoe"}},
		{"按地区子串过滤", "?location=par", []string{"mia"}},
		{"关键字搜索品牌描述", "?search=fashion", []string{"Acme"}},
		{"未识别技能得到空结果", "?skills=juggling", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := listUsers(t, h, tt.query)
			if code != http.StatusOK {
				t.Fatalf("status = %d, want 200", code)
			}
			names := usernames(resp)
			if len(names) != len(tt.want) {
				t.Fatalf("users = %v, want %v", names, tt.want)
			}
			got := map[string]bool{}
			for _, n := range names {
				got[n] = true
			}
			for _, wantName := range tt.want {
				if !got[wantName] {
					t.Errorf("missing %s in %v", wantName, names)
				}
			}
		})
	}

	t.Run("面板元数据来自全量用户", func(t *testing.T) {
		_, resp := listUsers(t, h, "?skills=juggling")
		meta, _ := resp["metadata"].(map[string]interface{})
		skills, _ := meta["availableSkills"].([]interface{})
		locations, _ := meta["availableLocations"].([]interface{})
		if len(skills) != 3 {
			t.Errorf("availableSkills = %v, want 3 entries", skills)
		}
		if len(locations) != 2 {
			t.Errorf("availableLocations = %v, want 2 entries", locations)
		}
	})
}

func TestListUsers_ExcludesSoftDeleted(t *testing.T) {
	store := memstore.NewStore()
	h := NewHandler(store, store, nil)

	seedModel(t, store, "usr-1", "mia", nil, "", 100)
	if _, err := store.SoftDeleteUser(context.Background(), "usr-1"); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	_, resp := listUsers(t, h, "")
	if names := usernames(resp); len(names) != 0 {
		t.Errorf("users = %v, want empty after soft delete", names)
	}
}

// fakeDownloader 内存照片存储，用于下载接口测试
type fakeDownloader struct {
	objects map[string]string
}

func (f *fakeDownloader) Download(ctx context.Context, key string) (io.ReadCloser, string, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, "", objstore.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader([]byte(data))), "image/jpeg", nil
}

func TestDownloadPhoto(t *testing.T) {
	store := memstore.NewStore()
	photos := &fakeDownloader{objects: map[string]string{"usr-1/cover.jpg": "jpeg-bytes"}}
	h := NewHandler(store, store, photos)

	do := func(h *Handler, key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/photos/"+key, nil)
		req.SetPathValue("key", key)
		rec := httptest.NewRecorder()
		h.DownloadPhoto(rec, req)
		return rec
	}

	t.Run("下载成功", func(t *testing.T) {
		rec := do(h, "usr-1/cover.jpg")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if rec.Body.String() != "jpeg-bytes" {
			t.Errorf("body = %q", rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
			t.Errorf("content type = %q, want image/jpeg", ct)
		}
	})

	t.Run("对象不存在返回404", func(t *testing.T) {
		if rec := do(h, "missing.jpg"); rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("未配置对象存储返回404", func(t *testing.T) {
		bare := NewHandler(store, store, nil)
		if rec := do(bare, "usr-1/cover.jpg"); rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}
