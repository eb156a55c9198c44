package health

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"toolhub/internal/auth"
	"toolhub/internal/common"
	"toolhub/internal/logger"
	"toolhub/internal/tool"

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

func setupServices(t *testing.T) (*Service, *tool.Service) {
	t.Helper()
	dsn := fmt.Sprintf("file:health_svc_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	toolSvc := tool.NewService(db)
	require.NoError(t, toolSvc.AutoMigrate())
	svc := NewService(db)
	require.NoError(t, svc.AutoMigrate())
	return svc, toolSvc
}

func createTool(t *testing.T, toolSvc *tool.Service) *tool.Tool {
	t.Helper()
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
	return created
}

func TestRecordDualWrite(t *testing.T) {
	svc, toolSvc := setupServices(t)
	created := createTool(t, toolSvc)
	require.Equal(t, tool.HealthStatusUnknown, created.HealthStatus)

	newURL := "https://api.example.com/v2/openapi.yaml"
	check, err := svc.Record(context.Background(), created.ID, &CreateHealthUpdateRequest{
		ToolID:       created.ID,
		HealthStatus: tool.HealthStatusHealthy,
		APIURL:       &newURL,
	})
	require.NoError(t, err)
	require.NotZero(t, check.ID)
	require.Equal(t, tool.HealthStatusHealthy, check.HealthStatus)

	// 工具上的缓存状态与 api_url 同步更新
	stored, err := toolSvc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, tool.HealthStatusHealthy, stored.HealthStatus)
	require.Equal(t, newURL, stored.APIURL)

	history, err := svc.List(context.Background(), created.ID, common.CursorRequest{})
	require.NoError(t, err)
	require.Len(t, history, 1)
}

func TestRecordIDMismatchWritesNothing(t *testing.T) {
	svc, toolSvc := setupServices(t)
	created := createTool(t, toolSvc)

	_, err := svc.Record(context.Background(), created.ID, &CreateHealthUpdateRequest{
		ToolID:       "55555555-5555-5555-5555-555555555555",
		HealthStatus: tool.HealthStatusDown,
	})
	require.ErrorIs(t, err, ErrToolIDMismatch)

	// 不一致时历史与缓存状态都不能变
	history, err := svc.List(context.Background(), created.ID, common.CursorRequest{})
	require.NoError(t, err)
	require.Empty(t, history)

	stored, err := toolSvc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, tool.HealthStatusUnknown, stored.HealthStatus)
}

func TestRecordUnknownTool(t *testing.T) {
	svc, _ := setupServices(t)

	id := "66666666-6666-6666-6666-666666666666"
	_, err := svc.Record(context.Background(), id, &CreateHealthUpdateRequest{
		ToolID:       id,
		HealthStatus: tool.HealthStatusHealthy,
	})
	require.ErrorIs(t, err, ErrToolNotFound)
}

func TestListEmptyHistoryReturnsEmptySlice(t *testing.T) {
	svc, toolSvc := setupServices(t)
	created := createTool(t, toolSvc)

	history, err := svc.List(context.Background(), created.ID, common.CursorRequest{})
	require.NoError(t, err)
	require.NotNil(t, history)
	require.Empty(t, history)
}

func TestListUnknownTool(t *testing.T) {
	svc, _ := setupServices(t)

	_, err := svc.List(context.Background(), "77777777-7777-7777-7777-777777777777", common.CursorRequest{})
	require.ErrorIs(t, err, ErrToolNotFound)
}

func TestListNewestFirstWithCursor(t *testing.T) {
	svc, toolSvc := setupServices(t)
	created := createTool(t, toolSvc)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	statuses := []string{
		tool.HealthStatusDown,
		tool.HealthStatusUnhealthy,
		tool.HealthStatusHealthy,
	}
	for i, status := range statuses {
		check, err := svc.Record(context.Background(), created.ID, &CreateHealthUpdateRequest{
			ToolID:       created.ID,
			HealthStatus: status,
		})
		require.NoError(t, err)
		require.NoError(t, svc.db.Model(&HealthCheck{}).
			Where("id = ?", check.ID).
			UpdateColumn("created_at", base.Add(time.Duration(i)*time.Hour)).Error)
	}

	history, err := svc.List(context.Background(), created.ID, common.CursorRequest{Limit: 2})
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, tool.HealthStatusHealthy, history[0].HealthStatus)
	require.Equal(t, tool.HealthStatusUnhealthy, history[1].HealthStatus)

	next, err := svc.List(context.Background(), created.ID, common.CursorRequest{
		Limit:       2,
		CreatedAtLt: history[1].CreatedAt,
	})
	require.NoError(t, err)
	require.Len(t, next, 1)
	require.Equal(t, tool.HealthStatusDown, next[0].HealthStatus)
}
