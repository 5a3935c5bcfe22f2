package model

import "time"

// 顧客向けのお知らせ（注文ステータス変更・決済確認・期限切れなど）
type Notification struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID int64     `gorm:"not null;index" json:"customer_id"`
	Message    string    `gorm:"type:varchar(255);not null" json:"message"`
	Read       bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
