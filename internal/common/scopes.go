package common

import (
	"time"

	"gorm.io/gorm"
)

// NewestFirst 按创建时间倒序（列表查询的唯一排序保证）
// 使用方法：db.Scopes(common.NewestFirst()).Find(&tools)
func NewestFirst() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC")
	}
}

// CreatedBefore 按游标时间过滤 created_at < t 的记录
// 使用方法：db.Scopes(common.CreatedBefore(cursor)).Find(&tools)
func CreatedBefore(t time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("created_at < ?", t)
	}
}

// VisibleTo 所有权过滤：公开记录或请求者本人的记录
// 必须在 Limit 之前应用，否则单页可见记录会少于 limit
// 使用方法：db.Scopes(common.VisibleTo(userID)).Find(&tools)
func VisibleTo(userID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if userID == "" {
			return db.Where("public = ?", true)
		}
		return db.Where("public = ? OR user_id = ?", true, userID)
	}
}

// ByOwner 按所有者过滤
// 使用方法：db.Scopes(common.ByOwner(userID)).Find(&tools)
func ByOwner(userID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}
