package company

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hiringbull/server/model"
	"github.com/hiringbull/server/utils/response"
	"github.com/hiringbull/server/utils/validation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CompanyHandler handles company directory requests
type CompanyHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewCompanyHandler creates a new company handler
func NewCompanyHandler(db *gorm.DB) *CompanyHandler {
	return &CompanyHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateCompanyRequest represents the request body for creating a company
type CreateCompanyRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	Logo        string `json:"logo" validate:"omitempty,url"`
	Category    string `json:"category" validate:"omitempty,max=100"`
}

// ListCompanies handles GET /api/companies with optional category filter
func (h *CompanyHandler) ListCompanies(c *fiber.Ctx) error {
	category := c.Query("category")

	query := h.db.Model(&model.Company{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var companies []model.Company
	if err := query.Order("name ASC").Find(&companies).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch companies")
	}

	return response.Success(c, companies)
}

// CreateCompany handles POST /api/companies
func (h *CompanyHandler) CreateCompany(c *fiber.Ctx) error {
	var req CreateCompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var existing model.Company
	if err := h.db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return response.BadRequest(c, "Company already exists")
	}

	company := model.Company{
		Name:        validation.SanitizeString(req.Name),
		Description: validation.SanitizeString(req.Description),
		Logo:        req.Logo,
		Category:    validation.SanitizeString(req.Category),
	}
	if err := h.db.Create(&company).Error; err != nil {
		return response.InternalServerError(c, "Failed to create company")
	}

	return response.Created(c, company)
}

// BulkCreateCompanies handles POST /api/companies/bulk.
// Duplicate names are skipped via the unique index.
func (h *CompanyHandler) BulkCreateCompanies(c *fiber.Ctx) error {
	var reqs []CreateCompanyRequest
	if err := c.BodyParser(&reqs); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if len(reqs) == 0 {
		return response.BadRequest(c, "At least one company is required")
	}
	for _, req := range reqs {
		if err := h.validator.ValidateStruct(req); err != nil {
			return response.ValidationError(c, err)
		}
	}

	companies := make([]model.Company, 0, len(reqs))
	for _, req := range reqs {
		companies = append(companies, model.Company{
			Name:        validation.SanitizeString(req.Name),
			Description: validation.SanitizeString(req.Description),
			Logo:        req.Logo,
			Category:    validation.SanitizeString(req.Category),
		})
	}

	result := h.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&companies)
	if result.Error != nil {
		return response.InternalServerError(c, "Failed to insert companies")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Bulk insert completed",
		"count":   result.RowsAffected,
	})
}
