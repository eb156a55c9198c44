package tool

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

// fakeAuthenticator 测试用认证器
type fakeAuthenticator struct{}

func (fakeAuthenticator) Authenticate(_ context.Context, token string) (*auth.Identity, error) {
	if token == "user-token" {
		return &auth.Identity{UserID: "user-1", SessionToken: token}, nil
	}
	return nil, auth.ErrInvalidToken
}

func setupRouter(t *testing.T) (*gin.Engine, *tool.Service, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:tool_handler_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	svc := tool.NewService(db)
	require.NoError(t, svc.AutoMigrate())
	handler := NewHandler(svc)

	router := gin.New()
	tools := router.Group("/tools")
	tools.Use(auth.AuthMiddleware(fakeAuthenticator{}))
	{
		tools.POST("", handler.Create)
		tools.POST("/yaml", handler.CreateFromYAML)
		tools.GET("", handler.List)
		tools.GET("/:id", handler.Get)
		tools.PUT("/:id", handler.Update)
		tools.DELETE("/:id", handler.Delete)
		tools.GET("/:id/agents", handler.GetAgents)
		tools.POST("/:id/agents", handler.SetAgents)
	}
	return router, svc, db
}

func authedRequest(method, path string, body []byte) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer user-token")
	req.Header.Set("Content-Type", "application/json")
	return req
}

func validCreateBody() map[string]any {
	return map[string]any{
		"display_name":          "weather",
		"name_for_human":        "Weather Tool",
		"name_for_ai":           "weather",
		"description_for_human": "Get the current weather for any city.",
		"description_for_ai":    "Returns current weather conditions.",
		"api_type":              "openapi",
		"api_url":               "https://api.example.com/openapi.yaml",
		"logo_url":              "https://api.example.com/logo.png",
		"contact_email":         "dev@example.com",
		"legal_info_url":        "https://api.example.com/legal",
	}
}

func decodeEnvelope(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope
}

func TestCreateRequiresAuth(t *testing.T) {
	router, _, _ := setupRouter(t)

	body, _ := json.Marshal(validCreateBody())
	req := httptest.NewRequest(http.MethodPost, "/tools", bytes.NewReader(body))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestCreateSuccess(t *testing.T) {
	router, _, _ := setupRouter(t)

	body, _ := json.Marshal(validCreateBody())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodPost, "/tools", body))

	require.Equal(t, http.StatusCreated, resp.Code)
	envelope := decodeEnvelope(t, resp)
	require.Equal(t, true, envelope["success"])

	data := envelope["data"].(map[string]any)
	require.NotEmpty(t, data["id"])
	require.Equal(t, "user-1", data["user_id"])
	require.Equal(t, "unknown", data["health_status"])
}

func TestCreateInvalidCharset(t *testing.T) {
	router, _, _ := setupRouter(t)

	payload := validCreateBody()
	payload["name_for_ai"] = "bad_charset"
	body, _ := json.Marshal(payload)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodPost, "/tools", body))

	require.Equal(t, http.StatusBadRequest, resp.Code)
	envelope := decodeEnvelope(t, resp)
	require.EqualValues(t, 2001, envelope["code"])
}

func TestCreateFromYAML(t *testing.T) {
	router, _, _ := setupRouter(t)

	yamlBody := []byte(`display_name: weather
name_for_human: Weather Tool
name_for_ai: weather
description_for_human: Get the current weather for any city.
description_for_ai: Returns current weather conditions.
api_type: openapi
api_url: https://api.example.com/openapi.yaml
logo_url: https://api.example.com/logo.png
contact_email: dev@example.com
legal_info_url: https://api.example.com/legal
`)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodPost, "/tools/yaml", yamlBody))

	require.Equal(t, http.StatusCreated, resp.Code)
}

func TestCreateFromYAMLInvalid(t *testing.T) {
	router, _, _ := setupRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodPost, "/tools/yaml", []byte("{{ not yaml :::")))

	require.Equal(t, http.StatusBadRequest, resp.Code)
	envelope := decodeEnvelope(t, resp)
	require.EqualValues(t, 2002, envelope["code"])
}

func TestGetNotFound(t *testing.T) {
	router, _, _ := setupRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodGet, "/tools/88888888-8888-8888-8888-888888888888", nil))

	require.Equal(t, http.StatusNotFound, resp.Code)
	envelope := decodeEnvelope(t, resp)
	require.EqualValues(t, 2000, envelope["code"])
}

func TestDeleteMissingReturns404(t *testing.T) {
	router, _, _ := setupRouter(t)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodDelete, "/tools/99999999-9999-9999-9999-999999999999", nil))

	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestUpdateRoundTrip(t *testing.T) {
	router, svc, _ := setupRouter(t)
	created, err := svc.Create(context.Background(), &auth.Identity{UserID: "user-1"}, func() *tool.CreateToolRequest {
		var req tool.CreateToolRequest
		raw, _ := json.Marshal(validCreateBody())
		_ = json.Unmarshal(raw, &req)
		return &req
	}())
	require.NoError(t, err)

	body := []byte(`{"name_for_human":"Better Weather","public":true}`)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodPut, "/tools/"+created.ID, body))

	require.Equal(t, http.StatusOK, resp.Code)
	envelope := decodeEnvelope(t, resp)
	data := envelope["data"].(map[string]any)
	require.Equal(t, "Better Weather", data["name_for_human"])
	require.Equal(t, true, data["public"])
}

func TestSetAgentsEndpoint(t *testing.T) {
	router, svc, db := setupRouter(t)
	created, err := svc.Create(context.Background(), &auth.Identity{UserID: "user-1"}, func() *tool.CreateToolRequest {
		var req tool.CreateToolRequest
		raw, _ := json.Marshal(validCreateBody())
		_ = json.Unmarshal(raw, &req)
		return &req
	}())
	require.NoError(t, err)

	require.NoError(t, db.Create(&tool.Agent{ID: 1, Name: "a1"}).Error)

	body := []byte(`{"agent_ids":[1,1,42]}`)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodPost, "/tools/"+created.ID+"/agents", body))

	require.Equal(t, http.StatusOK, resp.Code)
	envelope := decodeEnvelope(t, resp)
	data := envelope["data"].([]any)
	require.Len(t, data, 1)
	require.EqualValues(t, 1, data[0])
}
