package plugin

import (
	"time"

	"toolhub/internal/tool"
)

// SchemaVersion 插件清单协议版本
const SchemaVersion = "v1"

// 认证描述默认值
const (
	AuthTypeUserHTTP        = "user_http"
	AuthorizationTypeBearer = "bearer"
)

// AuthDescriptor 插件认证方式描述
type AuthDescriptor struct {
	Type              string `json:"type" yaml:"type"`
	AuthorizationType string `json:"authorization_type" yaml:"authorization_type"`
}

// APIDescriptor 插件 API 入口描述
type APIDescriptor struct {
	Type                  string `json:"type" yaml:"type"`
	URL                   string `json:"url" yaml:"url"`
	HasUserAuthentication bool   `json:"has_user_authentication" yaml:"has_user_authentication"`
}

// Manifest 插件清单（ai-plugin 格式），对外只读
type Manifest struct {
	SchemaVersion       string         `json:"schema_version" yaml:"schema_version"`
	NameForModel        string         `json:"name_for_model" yaml:"name_for_model"`
	NameForHuman        string         `json:"name_for_human" yaml:"name_for_human"`
	DescriptionForModel string         `json:"description_for_model" yaml:"description_for_model"`
	DescriptionForHuman string         `json:"description_for_human" yaml:"description_for_human"`
	Auth                AuthDescriptor `json:"auth" yaml:"auth"`
	API                 APIDescriptor  `json:"api" yaml:"api"`
	LogoURL             string         `json:"logo_url" yaml:"logo_url"`
	ContactEmail        string         `json:"contact_email" yaml:"contact_email"`
	LegalInfoURL        string         `json:"legal_info_url" yaml:"legal_info_url"`
}

// Plugin 预注册的插件清单记录
type Plugin struct {
	ID                  int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	NameForModel        string    `json:"name_for_model" gorm:"column:name_for_model;size:80;not null;uniqueIndex"`
	NameForHuman        string    `json:"name_for_human" gorm:"column:name_for_human;size:80;not null"`
	DescriptionForModel string    `json:"description_for_model" gorm:"column:description_for_model;size:280;not null"`
	DescriptionForHuman string    `json:"description_for_human" gorm:"column:description_for_human;size:280;not null"`
	APIType             string    `json:"api_type" gorm:"column:api_type;size:50;default:openapi"`
	APIURL              string    `json:"api_url" gorm:"column:api_url;size:500;not null"`
	LogoURL             string    `json:"logo_url" gorm:"column:logo_url;size:500"`
	ContactEmail        string    `json:"contact_email" gorm:"size:255"`
	LegalInfoURL        string    `json:"legal_info_url" gorm:"column:legal_info_url;size:500"`
	CreatedAt           time.Time `json:"created_at" gorm:"not null;autoCreateTime"`
}

func (Plugin) TableName() string {
	return "plugins"
}

// defaultAuth 清单里统一宣告 Bearer 认证
func defaultAuth() AuthDescriptor {
	return AuthDescriptor{
		Type:              AuthTypeUserHTTP,
		AuthorizationType: AuthorizationTypeBearer,
	}
}

// ManifestFromTool 把工具描述符投影为插件清单
func ManifestFromTool(t *tool.Tool) *Manifest {
	return &Manifest{
		SchemaVersion:       SchemaVersion,
		NameForModel:        t.NameForAI,
		NameForHuman:        t.NameForHuman,
		DescriptionForModel: t.DescriptionForAI,
		DescriptionForHuman: t.DescriptionForHuman,
		Auth:                defaultAuth(),
		API: APIDescriptor{
			Type:                  t.APIType,
			URL:                   t.APIURL,
			HasUserAuthentication: false,
		},
		LogoURL:      t.LogoURL,
		ContactEmail: t.ContactEmail,
		LegalInfoURL: t.LegalInfoURL,
	}
}

// Manifest 把插件记录投影为清单
func (p *Plugin) Manifest() *Manifest {
	return &Manifest{
		SchemaVersion:       SchemaVersion,
		NameForModel:        p.NameForModel,
		NameForHuman:        p.NameForHuman,
		DescriptionForModel: p.DescriptionForModel,
		DescriptionForHuman: p.DescriptionForHuman,
		Auth:                defaultAuth(),
		API: APIDescriptor{
			Type:                  p.APIType,
			URL:                   p.APIURL,
			HasUserAuthentication: false,
		},
		LogoURL:      p.LogoURL,
		ContactEmail: p.ContactEmail,
		LegalInfoURL: p.LegalInfoURL,
	}
}
