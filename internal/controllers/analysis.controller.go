package controllers

import (
	"encoding/base64"
	"net/http"
	"time"

	"nutrack/internal/cache"
	"nutrack/internal/models"
	"nutrack/internal/repository"
	"nutrack/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AnalysisController struct {
	jobRepo repository.AnalysisJobRepository
	worker  *services.AnalysisJobWorker
	results *cache.RedisClient
}

func NewAnalysisController(jobRepo repository.AnalysisJobRepository, worker *services.AnalysisJobWorker, results *cache.RedisClient) *AnalysisController {
	return &AnalysisController{
		jobRepo: jobRepo,
		worker:  worker,
		results: results,
	}
}

// SubmitAnalysis godoc
// @Summary Submit meal photos for analysis
// @Description Queue an asynchronous analysis job that turns meal photos into a structured item list. Poll the returned job id for the result.
// @Tags analysis
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param analysis body models.AnalysisInput true "Base64 encoded images"
// @Success 202 {object} map[string]interface{} "Analysis job queued"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 429 {object} map[string]interface{} "Too many active jobs"
// @Router /analysis [post]
func (ac *AnalysisController) SubmitAnalysis(c *gin.Context) {
	var input models.AnalysisInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request data",
			"error":   err.Error(),
		})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Unauthorized",
			"error":   "User ID not found in token",
		})
		return
	}
	uid := userID.(uint)

	images := make([]models.AnalysisImage, 0, len(input.Images))
	for _, img := range input.Images {
		data, err := base64.StdEncoding.DecodeString(img.Base64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "error",
				"message": "Invalid request data",
				"error":   "image is not valid base64",
			})
			return
		}
		images = append(images, models.AnalysisImage{Data: data, MimeType: img.MimeType})
	}

	job := models.AnalysisJob{
		ID:          uuid.NewString(),
		UserID:      uid,
		Status:      models.JobStatusPending,
		CurrentStep: models.JobStepDecodingImages,
		ImageCount:  len(images),
	}
	if err := ac.jobRepo.SaveJob(&job); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to create analysis job",
			"error":   err.Error(),
		})
		return
	}

	if err := ac.worker.SubmitJob(models.AnalysisJobRequest{
		JobID:  job.ID,
		UserID: uid,
		Images: images,
	}); err != nil {
		errMsg := err.Error()
		_ = ac.jobRepo.UpdateJobStatus(job.ID, models.JobStatusFailed, &errMsg)
		c.JSON(http.StatusTooManyRequests, gin.H{
			"status":  "error",
			"message": "Analysis could not be queued",
			"error":   errMsg,
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":  "success",
		"message": "Analysis job queued",
		"data": gin.H{
			"job_id": job.ID,
			"status": job.Status,
		},
	})
}

// GetAnalysisJob godoc
// @Summary Poll an analysis job
// @Description Get job status and progress. When the job is completed, the analysis result is included until it expires from the cache.
// @Tags analysis
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Success 200 {object} map[string]interface{} "Job status retrieved"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 404 {object} map[string]interface{} "Job not found"
// @Router /analysis/{id} [get]
func (ac *AnalysisController) GetAnalysisJob(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Unauthorized",
			"error":   "User ID not found in token",
		})
		return
	}

	jobID := c.Param("id")
	owned, err := ac.jobRepo.IsJobOwnedByUser(jobID, userID.(uint))
	if err != nil || !owned {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Job not found",
			"error":   "No analysis job exists with this id",
		})
		return
	}

	job, err := ac.jobRepo.GetJobByID(jobID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Job not found",
			"error":   "No analysis job exists with this id",
		})
		return
	}

	response := gin.H{
		"job_id":       job.ID,
		"status":       job.Status,
		"progress":     job.Progress,
		"current_step": job.CurrentStep,
		"created_at":   job.CreatedAt,
	}
	if job.ErrorMessage != nil {
		response["error_message"] = *job.ErrorMessage
	}
	if job.CompletedAt != nil {
		response["completed_at"] = job.CompletedAt
	}

	if job.Status == models.JobStatusCompleted && ac.results != nil {
		result, found, err := ac.results.GetAnalysisResult(jobID)
		if err == nil && found {
			response["result"] = result
		} else {
			// Result expired from the cache. The attempt stays recorded but
			// the payload is gone; clients resubmit.
			response["result_expired"] = true
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Job status retrieved",
		"data":    response,
	})
}

// CancelAnalysisJob godoc
// @Summary Cancel an analysis job
// @Description Mark a pending or processing job as cancelled. A job already picked up may still finish; its result is simply not collected.
// @Tags analysis
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Success 200 {object} map[string]interface{} "Job cancelled"
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Failure 404 {object} map[string]interface{} "Job not found"
// @Failure 409 {object} map[string]interface{} "Job already finished"
// @Router /analysis/{id} [delete]
func (ac *AnalysisController) CancelAnalysisJob(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": "Unauthorized",
			"error":   "User ID not found in token",
		})
		return
	}

	jobID := c.Param("id")
	owned, err := ac.jobRepo.IsJobOwnedByUser(jobID, userID.(uint))
	if err != nil || !owned {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Job not found",
			"error":   "No analysis job exists with this id",
		})
		return
	}

	job, err := ac.jobRepo.GetJobByID(jobID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Job not found",
			"error":   "No analysis job exists with this id",
		})
		return
	}

	if job.Status == models.JobStatusCompleted || job.Status == models.JobStatusFailed {
		c.JSON(http.StatusConflict, gin.H{
			"status":  "error",
			"message": "Job already finished",
			"error":   "Completed or failed jobs cannot be cancelled",
		})
		return
	}

	if err := ac.jobRepo.UpdateJobStatus(jobID, models.JobStatusCancelled, nil); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Failed to cancel job",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Job cancelled",
		"data": gin.H{
			"job_id":       jobID,
			"status":       models.JobStatusCancelled,
			"cancelled_at": time.Now(),
		},
	})
}
