package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kitchenlog/internal/config"
	"github.com/kitchenlog/internal/db"
	"github.com/kitchenlog/internal/storage"
)

func setupHandlerTest(t *testing.T) (*gin.Engine, *API, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := gdb.AutoMigrate(&db.Lockout{}, &db.IngredientVersion{}, &db.PriceRecord{}, &db.ActionLog{}, &db.Comment{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	cfg := config.AppConfig{KitchenPassword: "kitchen-pass", AdminPassword: "admin-pass"}
	cfg.AWS.KeyPrefix = "item-costs/"
	api := NewAPI(gdb, storage.NewMemoryStore(), cfg)
	api.SetSleep(func(time.Duration) {})

	r := gin.New()
	r.Use(sessions.Sessions("kitchenlog_session", cookie.NewStore([]byte("test-secret"))))
	r.POST("/login/:role", api.Login)
	r.POST("/logout", api.Logout)

	admin := r.Group("/api/admin")
	admin.Use(AuthRequired("admin"))
	{
		admin.GET("/ingredients", api.GetIngredients)
		admin.POST("/ingredients", api.CreateIngredient)
	}

	return r, api, gdb
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func jarCookies(jar cookieJar) []*http.Cookie {
	out := make([]*http.Cookie, 0, len(jar))
	for _, c := range jar {
		out = append(out, c)
	}
	return out
}

func TestLoginWrongPasswordRecordsAttempt(t *testing.T) {
	r, _, gdb := setupHandlerTest(t)

	rr := postJSON(t, r, "/login/kitchen", gin.H{"password": "wrong"}, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected %d, got %d", http.StatusUnauthorized, rr.Code)
	}

	var lockout db.Lockout
	if err := gdb.First(&lockout).Error; err != nil {
		t.Fatalf("load lockout: %v", err)
	}
	if lockout.Attempts != 1 {
		t.Fatalf("expected 1 recorded attempt, got %d", lockout.Attempts)
	}
}

func TestLoginLockoutReturnsRetryAfter(t *testing.T) {
	r, _, _ := setupHandlerTest(t)

	for i := 0; i < 10; i++ {
		rr := postJSON(t, r, "/login/kitchen", gin.H{"password": "wrong"}, nil)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected %d, got %d", i, http.StatusUnauthorized, rr.Code)
		}
	}

	rr := postJSON(t, r, "/login/kitchen", gin.H{"password": "kitchen-pass"}, nil)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected %d, got %d", http.StatusTooManyRequests, rr.Code)
	}

	var resp struct {
		Error      string `json:"error"`
		RetryAfter int    `json:"retry_after"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.RetryAfter <= 0 || resp.RetryAfter > 300 {
		t.Fatalf("unexpected retry_after: %d", resp.RetryAfter)
	}
}

func TestLoginUnknownRole(t *testing.T) {
	r, _, _ := setupHandlerTest(t)

	rr := postJSON(t, r, "/login/warehouse", gin.H{"password": "anything"}, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected %d, got %d", http.StatusNotFound, rr.Code)
	}
}

func TestLoginSessionScopesRoles(t *testing.T) {
	r, _, _ := setupHandlerTest(t)

	// A kitchen session must not open the admin surface.
	rr := postJSON(t, r, "/login/kitchen", gin.H{"password": "kitchen-pass"}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("kitchen login: expected %d, got %d", http.StatusOK, rr.Code)
	}
	kitchenCookies := rr.Result().Cookies()

	req := httptest.NewRequest(http.MethodGet, "/api/admin/ingredients", nil)
	for _, c := range kitchenCookies {
		req.AddCookie(c)
	}
	probe := httptest.NewRecorder()
	r.ServeHTTP(probe, req)
	if probe.Code != http.StatusUnauthorized {
		t.Fatalf("kitchen session reached admin surface: %d", probe.Code)
	}

	// The admin override opens the kitchen gate too.
	rr = postJSON(t, r, "/login/kitchen", gin.H{"password": "admin-pass"}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("override login: expected %d, got %d", http.StatusOK, rr.Code)
	}
}

// cookieJar 按名字覆盖会话 cookie，避免请求里带上过期的旧值。
type cookieJar map[string]*http.Cookie

func (j cookieJar) update(rr *httptest.ResponseRecorder) {
	for _, c := range rr.Result().Cookies() {
		j[c.Name] = c
	}
}

func (j cookieJar) apply(req *http.Request) {
	for _, c := range j {
		req.AddCookie(c)
	}
}

func TestSuccessNoticeIsDrainedOnce(t *testing.T) {
	r, _, _ := setupHandlerTest(t)

	jar := cookieJar{}
	rr := postJSON(t, r, "/login/admin", gin.H{"password": "admin-pass"}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("admin login: expected %d, got %d", http.StatusOK, rr.Code)
	}
	jar.update(rr)

	created := postJSON(t, r, "/api/admin/ingredients", gin.H{"name": "Flour"}, jarCookies(jar))
	if created.Code != http.StatusCreated {
		t.Fatalf("create ingredient: expected %d, got %d", http.StatusCreated, created.Code)
	}
	jar.update(created)

	list := func() []string {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/ingredients", nil)
		jar.apply(req)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("list ingredients: expected %d, got %d", http.StatusOK, rec.Code)
		}
		jar.update(rec)

		var resp struct {
			Notices []string `json:"notices"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode list: %v", err)
		}
		return resp.Notices
	}

	first := list()
	if len(first) != 1 || first[0] != "Added Flour" {
		t.Fatalf("expected one-shot notice, got %+v", first)
	}

	second := list()
	if len(second) != 0 {
		t.Fatalf("notice shown twice: %+v", second)
	}
}
