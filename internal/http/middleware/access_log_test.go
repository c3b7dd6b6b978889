package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/freakinbeats/go-vinyl-backend/internal/repo"
)

func accessLogDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repo.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestAccessLog_RecordsRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := accessLogDB(t)

	r := gin.New()
	r.Use(RequestID())
	r.Use(AccessLog(db))
	r.GET("/api/data", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{}) })

	req := httptest.NewRequest(http.MethodGet, "/api/data?artist=aphex", nil)
	req.Header.Set("User-Agent", "storefront/1.0")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	rows, err := repo.ListAccessLogsPage(context.Background(), db, 0, 10)
	if err != nil || len(rows) != 1 {
		t.Fatalf("expected 1 row: %v, n=%d", err, len(rows))
	}
	row := rows[0]
	if row.Method != "GET" || row.Path != "/api/data" || row.QueryString != "artist=aphex" {
		t.Fatalf("row fields wrong: %+v", row)
	}
	if row.StatusCode != http.StatusOK || row.UserAgent != "storefront/1.0" {
		t.Fatalf("row fields wrong: %+v", row)
	}
	if row.RequestID == "" {
		t.Fatal("correlation id should be recorded")
	}
	if row.Timestamp.IsZero() {
		t.Fatal("timestamp should be set")
	}
}

func TestAccessLog_SkipsOperationalPaths(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := accessLogDB(t)

	r := gin.New()
	r.Use(AccessLog(db))
	for _, p := range []string{"/metrics", "/health", "/swagger/index.html"} {
		r.GET(p, func(c *gin.Context) { c.Status(http.StatusOK) })
	}

	for _, p := range []string{"/metrics", "/health", "/swagger/index.html"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, p, nil))
	}

	n, err := repo.CountAccessLogs(context.Background(), db)
	if err != nil || n != 0 {
		t.Fatalf("operational paths must not be logged: %v, n=%d", err, n)
	}
}

func TestAccessLog_RecordsErrorStatuses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := accessLogDB(t)

	r := gin.New()
	r.Use(AccessLog(db))
	r.GET("/boom", func(c *gin.Context) { c.JSON(http.StatusInternalServerError, gin.H{}) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	rows, err := repo.ListAccessLogsPage(context.Background(), db, 0, 1)
	if err != nil || len(rows) != 1 || rows[0].StatusCode != http.StatusInternalServerError {
		t.Fatalf("error status not recorded: %v %+v", err, rows)
	}
}
