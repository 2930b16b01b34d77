package model

import "time"

// DailyRoster 每日排班 — 对应 daily_rosters；RosterID 即生成批次 ID
type DailyRoster struct {
	RosterID    string    `gorm:"type:uuid;primaryKey"       json:"roster_id"`
	VenueID     string    `gorm:"type:varchar(64);not null"  json:"venue_id"`
	RosterDate  time.Time `gorm:"type:date;not null"         json:"roster_date"`
	Demand      int       `gorm:"not null"                   json:"demand"`
	Candidates  int       `gorm:"not null"                   json:"candidates"`
	GeneratedAt time.Time `gorm:"not null"                   json:"generated_at"`
	VersionedModel

	// 关联
	Assignments []ShiftAssignment `gorm:"foreignKey:RosterID" json:"assignments,omitempty"`
	Slots       []OpenShiftSlot   `gorm:"foreignKey:RosterID" json:"slots,omitempty"`
}

func (DailyRoster) TableName() string { return "daily_rosters" }

// ShiftAssignment 排班明细 — 对应 shift_assignments
type ShiftAssignment struct {
	AssignmentID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_id"`
	RosterID     string    `gorm:"type:uuid;not null"                             json:"roster_id"`
	EmployeeID   string    `gorm:"type:varchar(64);not null"                      json:"employee_id"`
	ShiftStart   string    `gorm:"type:varchar(5);not null"                       json:"shift_start"`
	ShiftEnd     string    `gorm:"type:varchar(5);not null"                       json:"shift_end"`
	SlotID       *string   `gorm:"type:uuid"                                      json:"slot_id,omitempty"`
	Position     int       `gorm:"not null"                                       json:"position"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

func (ShiftAssignment) TableName() string { return "shift_assignments" }

// OpenShiftSlot 空班 — 对应 open_shift_slots
type OpenShiftSlot struct {
	SlotID     string     `gorm:"type:uuid;primaryKey"                       json:"slot_id"`
	RosterID   string     `gorm:"type:uuid;not null"                         json:"roster_id"`
	ShiftStart string     `gorm:"type:varchar(5);not null"                   json:"shift_start"`
	ShiftEnd   string     `gorm:"type:varchar(5);not null"                   json:"shift_end"`
	Status     string     `gorm:"type:varchar(10);not null;default:'open'"   json:"status"` // open | claimed
	ClaimedBy  *string    `gorm:"type:varchar(64)"                           json:"claimed_by,omitempty"`
	ClaimedAt  *time.Time `json:"claimed_at,omitempty"`
	Position   int        `gorm:"not null"                                   json:"position"`
	Version    int        `gorm:"not null;default:1"                         json:"version"`
	CreatedAt  time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"         json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"         json:"updated_at"`
}

func (OpenShiftSlot) TableName() string { return "open_shift_slots" }
