package health_test

import (
	"database/sql"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/leettrack/leettrack/internal/health"
	"github.com/leettrack/leettrack/pkg/database"
	"github.com/leettrack/leettrack/pkg/logger"
)

func setupHealthTest(t *testing.T) (*health.Handler, *sql.DB) {
	tmpDir := t.TempDir()
	dbPath := tmpDir + "/test.db"
	db, err := database.Open(dbPath)
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger.Init(logger.INFO, false, nil)

	return health.NewHandler(db), db
}

func TestHealthz_AlwaysReturnsOK(t *testing.T) {
	handler, _ := setupHealthTest(t)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", handler.Healthz)

	req := httptest.NewRequest("GET", "/health", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != 200 {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	body := resp.Body.String()
	if body != `{"status":"alive"}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestReadyz_HealthySystem(t *testing.T) {
	handler, _ := setupHealthTest(t)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/readyz", handler.Readyz)

	req := httptest.NewRequest("GET", "/readyz", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	body := resp.Body.String()
	if body != `{"status":"ready"}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestReadyz_DatabaseClosed(t *testing.T) {
	handler, db := setupHealthTest(t)

	db.Close()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/readyz", handler.Readyz)

	req := httptest.NewRequest("GET", "/readyz", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != 503 {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}
