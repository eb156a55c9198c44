package health

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"toolhub/internal/auth"
	"toolhub/internal/health"
	"toolhub/internal/logger"
	"toolhub/internal/tool"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	if err := logger.Init("error", "console", "stderr"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func setupRouter(t *testing.T) (*gin.Engine, *tool.Tool) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:health_handler_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	toolSvc := tool.NewService(db)
	require.NoError(t, toolSvc.AutoMigrate())
	svc := health.NewService(db)
	require.NoError(t, svc.AutoMigrate())

	created, err := toolSvc.Create(context.Background(), &auth.Identity{UserID: "user-1"}, &tool.CreateToolRequest{
		DisplayName:         "weather",
		NameForHuman:        "Weather Tool",
		NameForAI:           "weather",
		DescriptionForHuman: "Get the current weather for any city.",
		DescriptionForAI:    "Returns current weather conditions.",
		APIType:             tool.APITypeOpenAPI,
		APIURL:              "https://api.example.com/openapi.yaml",
		LogoURL:             "https://api.example.com/logo.png",
		ContactEmail:        "dev@example.com",
		LegalInfoURL:        "https://api.example.com/legal",
	})
	require.NoError(t, err)

	handler := NewHandler(svc)
	router := gin.New()
	router.POST("/tools/:id/health", handler.Record)
	router.GET("/tools/:id/health", handler.List)
	return router, created
}

func TestRecordSuccess(t *testing.T) {
	router, created := setupRouter(t)

	body, _ := json.Marshal(map[string]any{
		"tool_id":       created.ID,
		"health_status": "healthy",
	})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/tools/"+created.ID+"/health", bytes.NewReader(body)))

	require.Equal(t, http.StatusCreated, resp.Code)
}

func TestRecordIDMismatchReturns400(t *testing.T) {
	router, created := setupRouter(t)

	body, _ := json.Marshal(map[string]any{
		"tool_id":       "55555555-5555-5555-5555-555555555555",
		"health_status": "down",
	})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/tools/"+created.ID+"/health", bytes.NewReader(body)))

	require.Equal(t, http.StatusBadRequest, resp.Code)
	var envelope map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.EqualValues(t, 3000, envelope["code"])
}

func TestRecordRejectsUnknownStatus(t *testing.T) {
	router, created := setupRouter(t)

	body, _ := json.Marshal(map[string]any{
		"tool_id":       created.ID,
		"health_status": "flaky",
	})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/tools/"+created.ID+"/health", bytes.NewReader(body)))

	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestListReturnsEmptyArray(t *testing.T) {
	router, created := setupRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/tools/"+created.ID+"/health", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	var envelope struct {
		Success bool                 `json:"success"`
		Data    []health.HealthCheck `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	require.NotNil(t, envelope.Data)
	require.Empty(t, envelope.Data)
}
