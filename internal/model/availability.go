package model

import "time"

// EmployeeAvailability 员工可上班日期 — 对应 employee_availabilities
type EmployeeAvailability struct {
	EmployeeID    string    `gorm:"type:varchar(64);primaryKey"        json:"employee_id"`
	AvailableDate time.Time `gorm:"type:date;primaryKey"               json:"available_date"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (EmployeeAvailability) TableName() string { return "employee_availabilities" }
