package model

import "time"

// Venue 门店表 — 对应 venues（由外部目录服务维护）
type Venue struct {
	VenueID string `gorm:"type:varchar(64);primaryKey"  json:"venue_id"`
	Name    string `gorm:"type:varchar(200);not null"   json:"name"`
	BaseModel

	// 关联
	Employees []VenueEmployee `gorm:"foreignKey:VenueID" json:"employees,omitempty"`
}

func (Venue) TableName() string { return "venues" }

// VenueEmployee 门店员工名册 — 对应 venue_employees，Position 决定排班优先顺序
type VenueEmployee struct {
	VenueID    string    `gorm:"type:varchar(64);primaryKey"        json:"venue_id"`
	EmployeeID string    `gorm:"type:varchar(64);primaryKey"        json:"employee_id"`
	Position   int       `gorm:"not null"                           json:"position"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (VenueEmployee) TableName() string { return "venue_employees" }

// ReservationCount 预订人数 — 对应 reservation_counts（外部预订系统写入，rosterctl reservations set 可手工补录）
type ReservationCount struct {
	VenueID     string    `gorm:"type:varchar(64);primaryKey"        json:"venue_id"`
	ServiceDate time.Time `gorm:"type:date;primaryKey"               json:"service_date"`
	Covers      int       `gorm:"not null;default:0"                 json:"covers"`
	UpdatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (ReservationCount) TableName() string { return "reservation_counts" }
