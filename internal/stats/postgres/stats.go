package postgres

import (
	"math"
	"time"

	"github.com/campusworks/complaint-management/internal/complaint"
	"github.com/campusworks/complaint-management/internal/stats"
	"gorm.io/gorm"
)

type StatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) stats.Repository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) CountTotal() (int64, error) {
	var count int64
	err := r.db.Model(&complaint.Complaint{}).Count(&count).Error
	return count, err
}

func (r *StatsRepository) CountOpen() (int64, error) {
	var count int64
	err := r.db.Model(&complaint.Complaint{}).
		Where("status != ?", complaint.StatusResolved).
		Count(&count).Error
	return count, err
}

func (r *StatsRepository) CountResolved() (int64, error) {
	var count int64
	err := r.db.Model(&complaint.Complaint{}).
		Where("status = ?", complaint.StatusResolved).
		Count(&count).Error
	return count, err
}

// AvgResolutionHours averages in Go rather than SQL so the arithmetic is
// identical across the postgres and sqlite dialects.
func (r *StatsRepository) AvgResolutionHours() (int64, error) {
	rows, err := r.db.Model(&complaint.Complaint{}).
		Select("created_at, resolved_at").
		Where("status = ? AND resolved_at IS NOT NULL", complaint.StatusResolved).
		Rows()
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var totalHours float64
	var count int64
	for rows.Next() {
		var createdAt, resolvedAt time.Time
		if err := rows.Scan(&createdAt, &resolvedAt); err != nil {
			return 0, err
		}
		totalHours += resolvedAt.Sub(createdAt).Hours()
		count++
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	if count == 0 {
		return 0, nil
	}
	return int64(math.Round(totalHours / float64(count))), nil
}

func (r *StatsRepository) CountByAssignedDepartment() ([]*stats.DepartmentCount, error) {
	var counts []*stats.DepartmentCount
	err := r.db.Model(&complaint.Complaint{}).
		Select("assigned_to AS department, COUNT(*) AS count").
		Group("assigned_to").
		Order("count DESC").
		Scan(&counts).Error
	return counts, err
}

func (r *StatsRepository) CountByStatus() ([]*stats.StatusCount, error) {
	var counts []*stats.StatusCount
	err := r.db.Model(&complaint.Complaint{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	// Fixed display order regardless of counts.
	order := []string{complaint.StatusNew, complaint.StatusInProgress, complaint.StatusResolved}
	byStatus := make(map[string]*stats.StatusCount, len(counts))
	for _, c := range counts {
		byStatus[c.Status] = c
	}

	ordered := make([]*stats.StatusCount, 0, len(counts))
	for _, status := range order {
		if c, ok := byStatus[status]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered, nil
}

func (r *StatsRepository) CountByReportingDepartment() ([]*stats.DepartmentCount, error) {
	var counts []*stats.DepartmentCount
	err := r.db.Model(&complaint.Complaint{}).
		Select("reported_by_department AS department, COUNT(*) AS count").
		Group("reported_by_department").
		Order("count DESC").
		Scan(&counts).Error
	return counts, err
}
