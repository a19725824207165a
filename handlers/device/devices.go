package device

import (
	"github.com/gofiber/fiber/v2"
	"github.com/hiringbull/server/model"
	"github.com/hiringbull/server/utils/middleware"
	"github.com/hiringbull/server/utils/response"
	"github.com/hiringbull/server/utils/validation"
	"gorm.io/gorm"
)

// DeviceHandler manages the push-token registry. Notification delivery is out
// of scope; other systems read this table.
type DeviceHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewDeviceHandler creates a new device handler
func NewDeviceHandler(db *gorm.DB) *DeviceHandler {
	return &DeviceHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// AddDeviceRequest represents the request body for registering a device
type AddDeviceRequest struct {
	Token string `json:"token" validate:"required,max=512"`
	Type  string `json:"type" validate:"required,oneof=ios android web"`
}

// AddDevicePublicRequest allows unauthenticated registration with an
// optional owner
type AddDevicePublicRequest struct {
	Token  string  `json:"token" validate:"required,max=512"`
	Type   string  `json:"type" validate:"omitempty,oneof=ios android web"`
	UserID *string `json:"userId" validate:"omitempty,uuid"`
}

func (h *DeviceHandler) currentUser(c *fiber.Ctx) (*model.User, error) {
	clerkID, ok := middleware.GetClerkUserID(c)
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	var user model.User
	if err := h.db.Where("clerk_id = ?", clerkID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// AddDevice handles POST /api/users/devices.
// Re-registering a token moves its ownership to the caller.
func (h *DeviceHandler) AddDevice(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req AddDeviceRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var existing model.Device
	err = h.db.Where("token = ?", req.Token).First(&existing).Error
	switch err {
	case nil:
		if existing.UserID != nil && *existing.UserID == user.ID {
			return response.Success(c, existing)
		}
		existing.UserID = &user.ID
		existing.Type = req.Type
		if err := h.db.Save(&existing).Error; err != nil {
			return response.InternalServerError(c, "Failed to update device")
		}
		return response.Success(c, existing)
	case gorm.ErrRecordNotFound:
		device := model.Device{
			Token:  req.Token,
			Type:   req.Type,
			UserID: &user.ID,
		}
		if err := h.db.Create(&device).Error; err != nil {
			return response.InternalServerError(c, "Failed to register device")
		}
		return response.Created(c, device)
	default:
		return response.InternalServerError(c, "Failed to look up device")
	}
}

// AddDevicePublic handles POST /api/users/devices/public: unauthenticated
// upsert used before a user session exists.
func (h *DeviceHandler) AddDevicePublic(c *fiber.Ctx) error {
	var req AddDevicePublicRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var existing model.Device
	err := h.db.Where("token = ?", req.Token).First(&existing).Error
	switch err {
	case nil:
		if req.UserID != nil {
			existing.UserID = req.UserID
		}
		if req.Type != "" {
			existing.Type = req.Type
		}
		if err := h.db.Save(&existing).Error; err != nil {
			return response.InternalServerError(c, "Failed to update device")
		}
		return response.Success(c, existing)
	case gorm.ErrRecordNotFound:
		device := model.Device{
			Token:  req.Token,
			Type:   req.Type,
			UserID: req.UserID,
		}
		if err := h.db.Create(&device).Error; err != nil {
			return response.InternalServerError(c, "Failed to register device")
		}
		return response.Created(c, device)
	default:
		return response.InternalServerError(c, "Failed to look up device")
	}
}

// GetDevices handles GET /api/users/devices
func (h *DeviceHandler) GetDevices(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	var devices []model.Device
	if err := h.db.Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&devices).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch devices")
	}

	return response.Success(c, devices)
}

// RemoveDevice handles DELETE /api/users/devices/:token
func (h *DeviceHandler) RemoveDevice(c *fiber.Ctx) error {
	user, err := h.currentUser(c)
	if err != nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	token := c.Params("token")

	var device model.Device
	if err := h.db.Where("token = ?", token).First(&device).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Device not found")
		}
		return response.InternalServerError(c, "Failed to fetch device")
	}

	if device.UserID == nil || *device.UserID != user.ID {
		return response.Forbidden(c, "Unauthorized to remove this device")
	}

	if err := h.db.Delete(&device).Error; err != nil {
		return response.InternalServerError(c, "Failed to remove device")
	}

	return response.NoContent(c)
}
