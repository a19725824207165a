package user

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hiringbull/server/model"
	"github.com/hiringbull/server/utils/middleware"
	"github.com/hiringbull/server/utils/response"
	"github.com/hiringbull/server/utils/validation"
	"gorm.io/gorm"
)

// UserHandler handles user profile requests. Identity itself lives with the
// external provider; these endpoints manage the synced local rows.
type UserHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewUserHandler creates a new user handler
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateUserRequest represents the request body for creating/updating the
// caller's own user row
type CreateUserRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Name   string `json:"name" validate:"omitempty,max=255"`
	ImgURL string `json:"img_url" validate:"omitempty,url"`
}

// UpdateUserRequest represents the request body for updating a user
type UpdateUserRequest struct {
	Email     string   `json:"email" validate:"omitempty,email"`
	Name      string   `json:"name" validate:"omitempty,max=255"`
	ImgURL    string   `json:"img_url" validate:"omitempty,url"`
	Companies []string `json:"companies" validate:"omitempty,dive,uuid"`
}

// CreateUser handles POST /api/users: upsert keyed on the provider user id,
// so repeated sign-ins never create duplicates.
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	clerkID, ok := middleware.GetClerkUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var user model.User
	err := h.db.Where("clerk_id = ?", clerkID).First(&user).Error
	switch err {
	case nil:
		// Email stays as synced from the provider; only profile fields update.
		if req.Name != "" {
			user.Name = validation.SanitizeString(req.Name)
		}
		if req.ImgURL != "" {
			user.ImgURL = req.ImgURL
		}
		if err := h.db.Save(&user).Error; err != nil {
			return response.InternalServerError(c, "Failed to update user")
		}
	case gorm.ErrRecordNotFound:
		name := validation.SanitizeString(req.Name)
		if name == "" {
			name = "User"
		}
		user = model.User{
			ClerkID: clerkID,
			Email:   req.Email,
			Name:    name,
			ImgURL:  req.ImgURL,
		}
		if err := h.db.Create(&user).Error; err != nil {
			return response.InternalServerError(c, "Failed to create user")
		}
	default:
		return response.InternalServerError(c, "Failed to load user")
	}

	return response.Created(c, user)
}

// GetCurrentUser handles GET /api/users/me
func (h *UserHandler) GetCurrentUser(c *fiber.Ctx) error {
	clerkID, ok := middleware.GetClerkUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var user model.User
	err := h.db.Preload("Devices").Preload("FollowedCompanies").
		Where("clerk_id = ?", clerkID).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "User record not found in database")
		}
		return response.InternalServerError(c, "Failed to load user")
	}

	return response.Success(c, user)
}

// GetAllUsers handles GET /api/users
func (h *UserHandler) GetAllUsers(c *fiber.Ctx) error {
	var users []model.User
	if err := h.db.Find(&users).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch users")
	}
	return response.Success(c, users)
}

// GetUser handles GET /api/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id := c.Params("id")

	var user model.User
	if err := h.db.Where("id = ?", id).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch user")
	}

	return response.Success(c, user)
}

// UpdateUser handles PUT /api/users/:id. Users may only update themselves.
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id := c.Params("id")
	clerkID, ok := middleware.GetClerkUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var user model.User
	if err := h.db.Where("id = ?", id).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch user")
	}

	if user.ClerkID != clerkID {
		return response.Forbidden(c, "Unauthorized to update this user")
	}

	if req.Email != "" && req.Email != user.Email {
		var taken model.User
		if err := h.db.Where("email = ?", req.Email).First(&taken).Error; err == nil {
			return response.BadRequest(c, "Email already taken")
		}
		user.Email = req.Email
	}
	if req.Name != "" {
		user.Name = validation.SanitizeString(req.Name)
	}
	if req.ImgURL != "" {
		user.ImgURL = req.ImgURL
	}

	if err := h.db.Save(&user).Error; err != nil {
		return response.InternalServerError(c, "Failed to update user")
	}

	// Replace the followed-companies set when provided.
	if req.Companies != nil {
		var companies []model.Company
		if len(req.Companies) > 0 {
			if err := h.db.Where("id IN ?", req.Companies).Find(&companies).Error; err != nil {
				return response.InternalServerError(c, "Failed to load companies")
			}
		}
		if err := h.db.Model(&user).Association("FollowedCompanies").Replace(companies); err != nil {
			return response.InternalServerError(c, "Failed to update followed companies")
		}
	}

	var updated model.User
	if err := h.db.Preload("FollowedCompanies").Where("id = ?", user.ID).First(&updated).Error; err != nil {
		return response.InternalServerError(c, "Failed to reload user")
	}

	return response.Success(c, updated)
}

// DeleteUser handles DELETE /api/users/:id. Users may only delete themselves.
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	clerkID, ok := middleware.GetClerkUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var user model.User
	if err := h.db.Where("id = ?", id).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch user")
	}

	if user.ClerkID != clerkID {
		return response.Forbidden(c, "Unauthorized to delete this user")
	}

	if err := h.db.Delete(&user).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete user")
	}

	return response.NoContent(c)
}
