package complaint

import (
	"time"

	"github.com/campusworks/complaint-management/internal/activity"
)

const (
	StatusNew        = "New"
	StatusInProgress = "In Progress"
	StatusResolved   = "Resolved"
)

func IsValidStatus(status string) bool {
	switch status {
	case StatusNew, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// titleMaxLen is how much of the description becomes the derived title.
const titleMaxLen = 40

// DeriveTitle builds the complaint title from the description: the first
// 40 characters, with an ellipsis when truncated. The title is never
// independently settable.
func DeriveTitle(description string) string {
	runes := []rune(description)
	if len(runes) <= titleMaxLen {
		return description
	}
	return string(runes[:titleMaxLen]) + "..."
}

// Complaint is a reported infrastructure issue. ReportedByName and
// ReportedByDepartment are snapshots of the reporter frozen at creation
// time; later changes to the user record do not propagate here.
type Complaint struct {
	ID                   int64      `json:"id" gorm:"primaryKey"`
	Title                string     `json:"title" gorm:"not null"`
	Description          string     `json:"description" gorm:"not null"`
	ReportedBy           int64      `json:"reported_by" gorm:"column:reported_by;not null"`
	ReportedByName       string     `json:"reported_by_name" gorm:"column:reported_by_name"`
	ReportedByDepartment string     `json:"reported_by_department" gorm:"column:reported_by_department"`
	Block                *string    `json:"block,omitempty"`
	Floor                *string    `json:"floor,omitempty"`
	Room                 *string    `json:"room,omitempty"`
	AssignedTo           string     `json:"assigned_to" gorm:"column:assigned_to;not null"`
	Status               string     `json:"status" gorm:"default:New"`
	ResolutionNotes      *string    `json:"resolution_notes,omitempty" gorm:"column:resolution_notes"`
	PhotoPath            *string    `json:"photo_path,omitempty" gorm:"column:photo_path"`
	CreatedAt            time.Time  `json:"created_at" gorm:"column:created_at"`
	ResolvedAt           *time.Time `json:"resolved_at,omitempty" gorm:"column:resolved_at"`
}

func (Complaint) TableName() string {
	return "complaints"
}

// Detail is the single-complaint read shape: the row plus its ledger
// entries, newest first.
type Detail struct {
	Complaint
	Activities []*activity.EntryView `json:"activities"`
}
