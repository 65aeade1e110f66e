package integration_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/leettrack/leettrack/internal/auth"
	"github.com/leettrack/leettrack/internal/health"
	"github.com/leettrack/leettrack/internal/notify"
	"github.com/leettrack/leettrack/internal/problem"
	"github.com/leettrack/leettrack/internal/user"
	"github.com/leettrack/leettrack/pkg/database"
	"github.com/leettrack/leettrack/pkg/logger"
)

const testJWTSecret = "integration-test-secret"

type TestEnv struct {
	DB     *sql.DB
	Router *gin.Engine
	Hub    *notify.Hub
	Source *problem.MockSource
}

// SetupTestEnvironment builds the full HTTP surface against a throwaway
// sqlite database and a mock problem source.
func SetupTestEnvironment(t *testing.T) *TestEnv {
	t.Helper()

	tmpDir := t.TempDir()
	db, err := database.Open(tmpDir + "/test.db")
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger.Init(logger.INFO, false, nil)

	hub := notify.NewHub()
	source := problem.NewMockSource()
	problemService := problem.NewService(problem.NewStore(db), source)

	authHandler := auth.NewHandler(db, testJWTSecret)
	problemHandler := problem.NewHandler(problemService, hub)
	userHandler := user.NewHandler(db, problemService, hub)
	healthHandler := health.NewHandler(db)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.GET("/health", healthHandler.Healthz)
	router.GET("/readyz", healthHandler.Readyz)

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}
	protectedAuth := router.Group("/auth")
	protectedAuth.Use(auth.AuthMiddleware(testJWTSecret))
	{
		protectedAuth.POST("/change-password", authHandler.ChangePassword)
	}

	problemGroup := router.Group("/problems")
	{
		problemGroup.GET("/curated", problemHandler.Curated)
		problemGroup.GET("/:slug", problemHandler.GetProblem)

		protected := problemGroup.Group("")
		protected.Use(auth.AuthMiddleware(testJWTSecret))
		{
			protected.GET("", problemHandler.ListProblems)
			protected.POST("", problemHandler.AddProblem)
			protected.POST("/fetch", problemHandler.FetchProblem)
			protected.PUT("/:slug", problemHandler.UpdateProblem)
			protected.PUT("/:slug/rating", problemHandler.UpdateRating)
			protected.PUT("/:slug/status", problemHandler.UpdateStatus)
			protected.POST("/:slug/attempts", userHandler.AddAttempt)
			protected.GET("/:slug/attempts", userHandler.ListAttempts)
			protected.POST("/:slug/snippets", userHandler.AddSnippet)
			protected.GET("/:slug/snippets", userHandler.ListSnippets)
		}
	}

	userGroup := router.Group("/users")
	userGroup.Use(auth.AuthMiddleware(testJWTSecret))
	{
		userGroup.GET("/me", userHandler.GetProfile)
	}
	router.DELETE("/user/progress", auth.AuthMiddleware(testJWTSecret), userHandler.ClearProgress)

	return &TestEnv{
		DB:     db,
		Router: router,
		Hub:    hub,
		Source: source,
	}
}

// DoJSON performs a request against the in-memory router. A non-empty token
// is sent as a bearer credential.
func (env *TestEnv) DoJSON(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp := httptest.NewRecorder()
	env.Router.ServeHTTP(resp, req)
	return resp
}

// RegisterUser creates an account and returns its token.
func (env *TestEnv) RegisterUser(t *testing.T, username, email string) string {
	t.Helper()

	resp := env.DoJSON(t, "POST", "/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": "Sup3rSecret",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d: %s", username, resp.Code, resp.Body.String())
	}

	var authResp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &authResp); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	if authResp.Token == "" {
		t.Fatal("register returned empty token")
	}
	return authResp.Token
}
