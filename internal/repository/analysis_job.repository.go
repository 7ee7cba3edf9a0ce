package repository

import (
	"time"

	"nutrack/internal/models"

	"gorm.io/gorm"
)

type AnalysisJobRepository interface {
	SaveJob(job *models.AnalysisJob) error
	GetJobByID(id string) (*models.AnalysisJob, error)
	UpdateJobStatus(jobID, status string, errorMessage *string) error
	UpdateJobProgress(jobID string, progress int, step string) error
	GetJobsByUserID(userID uint, limit int) ([]*models.AnalysisJob, error)
	GetPendingJobs(limit int) ([]*models.AnalysisJob, error)
	GetActiveJobsCount(userID uint) (int64, error)
	IsJobOwnedByUser(jobID string, userID uint) (bool, error)
	CleanupOldJobs(olderThan time.Time) error
}

type analysisJobRepository struct {
	db *gorm.DB
}

func NewAnalysisJobRepository(db *gorm.DB) AnalysisJobRepository {
	return &analysisJobRepository{db: db}
}

func (r *analysisJobRepository) SaveJob(job *models.AnalysisJob) error {
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}
	job.UpdatedAt = time.Now()
	return r.db.Create(job).Error
}

func (r *analysisJobRepository) GetJobByID(id string) (*models.AnalysisJob, error) {
	var job models.AnalysisJob
	err := r.db.First(&job, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *analysisJobRepository) UpdateJobStatus(jobID, status string, errorMessage *string) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if errorMessage != nil {
		updates["error_message"] = *errorMessage
	}
	if status == models.JobStatusCompleted || status == models.JobStatusFailed {
		now := time.Now()
		updates["completed_at"] = &now
	}
	if status == models.JobStatusCompleted {
		updates["progress"] = 100
	}
	return r.db.Model(&models.AnalysisJob{}).Where("id = ?", jobID).Updates(updates).Error
}

func (r *analysisJobRepository) UpdateJobProgress(jobID string, progress int, step string) error {
	return r.db.Model(&models.AnalysisJob{}).Where("id = ?", jobID).Updates(map[string]interface{}{
		"progress":     progress,
		"current_step": step,
		"updated_at":   time.Now(),
	}).Error
}

func (r *analysisJobRepository) GetJobsByUserID(userID uint, limit int) ([]*models.AnalysisJob, error) {
	var jobs []*models.AnalysisJob
	query := r.db.Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&jobs).Error
	return jobs, err
}

func (r *analysisJobRepository) GetPendingJobs(limit int) ([]*models.AnalysisJob, error) {
	var jobs []*models.AnalysisJob
	query := r.db.Where("status = ?", models.JobStatusPending).Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&jobs).Error
	return jobs, err
}

func (r *analysisJobRepository) GetActiveJobsCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.AnalysisJob{}).
		Where("user_id = ? AND status IN ?", userID, []string{models.JobStatusPending, models.JobStatusProcessing}).
		Count(&count).Error
	return count, err
}

func (r *analysisJobRepository) IsJobOwnedByUser(jobID string, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.AnalysisJob{}).
		Where("id = ? AND user_id = ?", jobID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *analysisJobRepository) CleanupOldJobs(olderThan time.Time) error {
	return r.db.Unscoped().
		Where("created_at < ? AND status IN ?", olderThan, []string{models.JobStatusCompleted, models.JobStatusFailed, models.JobStatusCancelled}).
		Delete(&models.AnalysisJob{}).Error
}
