package dao

import (
	"context"

	"gorm.io/gorm"
)

// Dao 数据访问对象
// 封装数据库操作, Service 层不直接操作 DB
type Dao struct {
	ctx context.Context

	DB *gorm.DB
}

// New 创建一个新的 Dao 实例
func New(ctx context.Context, db *gorm.DB) *Dao {
	return &Dao{
		ctx: ctx,
		DB:  db,
	}
}

// AutoMigrate 创建或更新表结构
func (d *Dao) AutoMigrate() error {
	return d.DB.WithContext(d.ctx).AutoMigrate(&Activity{})
}
