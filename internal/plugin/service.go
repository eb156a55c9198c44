package plugin

import (
	"context"
	"errors"
	"fmt"

	"toolhub/internal/metrics"
	"toolhub/internal/tool"

	"gorm.io/gorm"
)

var ErrPluginNotFound = errors.New("插件清单不存在")

// Service 插件清单只读服务
type Service struct {
	db          *gorm.DB
	toolService *tool.Service
}

// NewService 创建插件清单服务
func NewService(db *gorm.DB, toolService *tool.Service) *Service {
	return &Service{db: db, toolService: toolService}
}

// AutoMigrate 自动迁移数据库表
func (s *Service) AutoMigrate() error {
	return s.db.AutoMigrate(&Plugin{})
}

// GetByName 按 name_for_model 查询预注册插件的清单
func (s *Service) GetByName(ctx context.Context, name string) (*Manifest, error) {
	var p Plugin
	err := s.db.WithContext(ctx).Where("name_for_model = ?", name).First(&p).Error
	metrics.RecordStoreOperation("plugin", "get", err)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPluginNotFound
		}
		return nil, fmt.Errorf("查询插件清单失败: %w", err)
	}
	return p.Manifest(), nil
}

// GetWellKnown 按所有者与工具名查询清单（.well-known 入口）
// 匿名访问只能看到公开工具；认证用户额外能看到自己的私有工具
func (s *Service) GetWellKnown(ctx context.Context, ownerID, name string, anonymous bool) (*Manifest, error) {
	t, err := s.toolService.GetByOwnerAndName(ctx, ownerID, name, anonymous)
	if err != nil {
		if errors.Is(err, tool.ErrToolNotFound) {
			return nil, ErrPluginNotFound
		}
		return nil, err
	}
	return ManifestFromTool(t), nil
}
