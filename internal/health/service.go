package health

import (
	"context"
	"errors"
	"fmt"

	"toolhub/internal/common"
	"toolhub/internal/logger"
	"toolhub/internal/metrics"
	"toolhub/internal/tool"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrToolIDMismatch = errors.New("路径中的工具ID与请求体不一致")
	ErrToolNotFound   = errors.New("工具不存在")
)

// Service 健康检查服务
type Service struct {
	db *gorm.DB
}

// NewService 创建健康检查服务
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// AutoMigrate 自动迁移数据库表
func (s *Service) AutoMigrate() error {
	return s.db.AutoMigrate(&HealthCheck{})
}

// Record 记录一次健康检查
// 双写在一个事务里完成：更新工具上的缓存状态 + 追加历史记录，不允许出现只成功一半
func (s *Service) Record(ctx context.Context, toolID string, req *CreateHealthUpdateRequest) (*HealthCheck, error) {
	if req.ToolID != toolID {
		return nil, ErrToolIDMismatch
	}

	check := &HealthCheck{
		ToolID:       toolID,
		HealthStatus: req.HealthStatus,
		APIURL:       req.APIURL,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"health_status": req.HealthStatus}
		if req.APIURL != nil {
			updates["api_url"] = *req.APIURL
		}

		result := tx.Model(&tool.Tool{}).Where("id = ?", toolID).Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrToolNotFound
		}

		return tx.Create(check).Error
	})
	metrics.RecordStoreOperation("health_check", "record", err)
	if err != nil {
		if errors.Is(err, ErrToolNotFound) {
			return nil, ErrToolNotFound
		}
		return nil, fmt.Errorf("记录健康检查失败: %w", err)
	}
	metrics.RecordHealthCheck(req.HealthStatus)

	logger.WithContext(ctx).Info("健康检查已记录",
		zap.String("tool_id", toolID),
		zap.String("health_status", req.HealthStatus),
	)
	return check, nil
}

// List 查询工具的健康检查历史（倒序游标分页）
// 工具存在但无记录时返回空切片而不是 nil
func (s *Service) List(ctx context.Context, toolID string, cursor common.CursorRequest) ([]HealthCheck, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&tool.Tool{}).Where("id = ?", toolID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("查询工具失败: %w", err)
	}
	if count == 0 {
		return nil, ErrToolNotFound
	}

	checks := []HealthCheck{}
	err := s.db.WithContext(ctx).
		Where("tool_id = ?", toolID).
		Scopes(
			common.CreatedBefore(cursor.GetCreatedAtLt()),
			common.NewestFirst(),
		).
		Limit(cursor.GetLimit()).
		Find(&checks).Error
	metrics.RecordStoreOperation("health_check", "list", err)
	if err != nil {
		return nil, fmt.Errorf("查询健康检查历史失败: %w", err)
	}
	return checks, nil
}
