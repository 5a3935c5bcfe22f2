package model

import "time"

// 顧客プロフィール。登録・編集は別サービスの責務で、
// ここでは注文の所有者と通知の宛先としてだけ読む。
// IDは認証トークンのsubと同じ値。
type Customer struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(150);not null" json:"name"`
	Email     string    `gorm:"type:varchar(150);not null;uniqueIndex" json:"email"`
	Phone     string    `gorm:"type:varchar(20)" json:"phone,omitempty"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
