// Package repositories 数据库账本
package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"rentpay/app/models/payment"
	"rentpay/pkg/database"
)

// PaymentRepository 以数据表作为收款账本，只追加不修改
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository 创建仓库实例
func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{
		db: database.DB,
	}
}

// Append 写入一条收款记录
func (r *PaymentRepository) Append(ctx context.Context, p *payment.Payment) error {
	result := r.db.WithContext(ctx).Create(p)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return fmt.Errorf("payment repository: expected 1 row, got %d", result.RowsAffected)
	}
	return nil
}

// List 按提交时间倒序返回全部记录
func (r *PaymentRepository) List(ctx context.Context) ([]payment.Payment, error) {
	var payments []payment.Payment
	err := r.db.WithContext(ctx).
		Order("recorded_at DESC").
		Find(&payments).Error
	return payments, err
}

// GetByID 根据记录 ID 获取收款记录
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*payment.Payment, error) {
	var p payment.Payment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Ping 检查数据库连接
func (r *PaymentRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
