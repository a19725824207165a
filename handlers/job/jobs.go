package job

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hiringbull/server/model"
	"github.com/hiringbull/server/utils/response"
	"github.com/hiringbull/server/utils/validation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JobHandler handles job listing requests
type JobHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewJobHandler creates a new job handler
func NewJobHandler(db *gorm.DB) *JobHandler {
	return &JobHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateJobRequest is one row of a bulk ingestion request
type CreateJobRequest struct {
	Title     string  `json:"title" validate:"required,max=255"`
	Company   string  `json:"company" validate:"omitempty,max=255"`
	Segment   string  `json:"segment" validate:"omitempty,max=100"`
	Location  string  `json:"location" validate:"omitempty,max=255"`
	ApplyURL  string  `json:"apply_url" validate:"omitempty,url"`
	CompanyID *string `json:"company_id" validate:"omitempty,uuid"`
}

// ListJobs handles GET /api/jobs with segment/companyId filters and pagination
func (h *JobHandler) ListJobs(c *fiber.Ctx) error {
	segment := c.Query("segment")
	companyID := c.Query("companyId")
	page, limit, offset := response.GetPagination(c)

	query := h.db.Model(&model.Job{})
	if segment != "" {
		query = query.Where("segment = ?", segment)
	}
	if companyID != "" {
		query = query.Where("company_id = ?", companyID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count jobs")
	}

	var jobs []model.Job
	if err := query.Preload("CompanyRel").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&jobs).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch jobs")
	}

	return response.Paginated(c, jobs, response.CalculatePagination(page, limit, total))
}

// GetJob handles GET /api/jobs/:id
func (h *JobHandler) GetJob(c *fiber.Ctx) error {
	id := c.Params("id")

	var job model.Job
	if err := h.db.Preload("CompanyRel").Where("id = ?", id).First(&job).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Job not found")
		}
		return response.InternalServerError(c, "Failed to fetch job")
	}

	return response.Success(c, job)
}

// BulkCreateJobs handles POST /api/jobs/bulk (API-key protected ingestion).
// Rows colliding with existing primary keys are skipped, not upserted.
func (h *JobHandler) BulkCreateJobs(c *fiber.Ctx) error {
	var reqs []CreateJobRequest
	if err := c.BodyParser(&reqs); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if len(reqs) == 0 {
		return response.BadRequest(c, "At least one job is required")
	}
	for _, req := range reqs {
		if err := h.validator.ValidateStruct(req); err != nil {
			return response.ValidationError(c, err)
		}
	}

	jobs := make([]model.Job, 0, len(reqs))
	for _, req := range reqs {
		jobs = append(jobs, model.Job{
			Title:     validation.SanitizeString(req.Title),
			Company:   validation.SanitizeString(req.Company),
			Segment:   validation.SanitizeString(req.Segment),
			Location:  validation.SanitizeString(req.Location),
			ApplyURL:  req.ApplyURL,
			CompanyID: req.CompanyID,
		})
	}

	result := h.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&jobs)
	if result.Error != nil {
		return response.InternalServerError(c, "Failed to insert jobs")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Bulk job creation completed",
		"count":   result.RowsAffected,
	})
}
