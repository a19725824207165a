package socialpost

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hiringbull/server/model"
	"github.com/hiringbull/server/utils/response"
	"github.com/hiringbull/server/utils/validation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SocialPostHandler handles aggregated social feed requests
type SocialPostHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewSocialPostHandler creates a new social post handler
func NewSocialPostHandler(db *gorm.DB) *SocialPostHandler {
	return &SocialPostHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateSocialPostRequest is one row of a bulk ingestion request
type CreateSocialPostRequest struct {
	Source  string `json:"source" validate:"required,max=100"`
	Company string `json:"company" validate:"omitempty,max=255"`
	Segment string `json:"segment" validate:"omitempty,max=100"`
	Author  string `json:"author" validate:"omitempty,max=255"`
	Content string `json:"content" validate:"required"`
	URL     string `json:"url" validate:"omitempty,url"`
}

// ListSocialPosts handles GET /api/social-posts with source/company/segment
// filters and pagination
func (h *SocialPostHandler) ListSocialPosts(c *fiber.Ctx) error {
	source := c.Query("source")
	company := c.Query("company")
	segment := c.Query("segment")
	page, limit, offset := response.GetPagination(c)

	query := h.db.Model(&model.SocialPost{})
	if source != "" {
		query = query.Where("source = ?", source)
	}
	if company != "" {
		query = query.Where("company = ?", company)
	}
	if segment != "" {
		query = query.Where("segment = ?", segment)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count social posts")
	}

	var posts []model.SocialPost
	if err := query.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch social posts")
	}

	return response.Paginated(c, posts, response.CalculatePagination(page, limit, total))
}

// GetSocialPost handles GET /api/social-posts/:id with comments included
func (h *SocialPostHandler) GetSocialPost(c *fiber.Ctx) error {
	id := c.Params("id")

	var post model.SocialPost
	err := h.db.
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at DESC")
		}).
		Preload("Comments.User").
		Where("id = ?", id).
		First(&post).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Social post not found")
		}
		return response.InternalServerError(c, "Failed to fetch social post")
	}

	return response.Success(c, post)
}

// BulkCreateSocialPosts handles POST /api/social-posts/bulk
func (h *SocialPostHandler) BulkCreateSocialPosts(c *fiber.Ctx) error {
	var reqs []CreateSocialPostRequest
	if err := c.BodyParser(&reqs); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if len(reqs) == 0 {
		return response.BadRequest(c, "At least one post is required")
	}
	for _, req := range reqs {
		if err := h.validator.ValidateStruct(req); err != nil {
			return response.ValidationError(c, err)
		}
	}

	posts := make([]model.SocialPost, 0, len(reqs))
	for _, req := range reqs {
		posts = append(posts, model.SocialPost{
			Source:  validation.SanitizeString(req.Source),
			Company: validation.SanitizeString(req.Company),
			Segment: validation.SanitizeString(req.Segment),
			Author:  validation.SanitizeString(req.Author),
			Content: req.Content,
			URL:     req.URL,
		})
	}

	result := h.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&posts)
	if result.Error != nil {
		return response.InternalServerError(c, "Failed to insert social posts")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Bulk social post creation completed",
		"count":   result.RowsAffected,
	})
}
