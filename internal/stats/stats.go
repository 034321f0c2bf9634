package stats

import (
	"github.com/campusworks/complaint-management/internal/activity"
)

// DashboardStats is the admin dashboard summary.
type DashboardStats struct {
	Total             int64                 `json:"total"`
	Open              int64                 `json:"open"`
	Resolved          int64                 `json:"resolved"`
	AvgResolutionTime int64                 `json:"avgResolutionTime"`
	RecentActivity    []*activity.EntryView `json:"recentActivity"`
}

// DepartmentCount is a complaint count grouped by department.
type DepartmentCount struct {
	Department string `json:"department"`
	Count      int64  `json:"count"`
}

// StatusCount is a complaint count grouped by status, in fixed display
// order New, In Progress, Resolved.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}
