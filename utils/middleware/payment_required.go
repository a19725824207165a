package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hiringbull/server/model"
	"github.com/hiringbull/server/utils/response"
	"gorm.io/gorm"
)

// PaymentRequired guards premium routes: the user behind the request must
// have an active subscription. IsPaid alone is not enough; an elapsed
// PlanExpiry means the plan lapsed even though the flag is never cleared.
func PaymentRequired(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		clerkID, ok := GetClerkUserID(c)
		if !ok {
			return response.Unauthorized(c, "User ID missing for payment check")
		}

		var user model.User
		if err := db.Where("clerk_id = ?", clerkID).First(&user).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return response.Unauthorized(c, "User not found")
			}
			return response.InternalServerError(c, "Failed to load user")
		}

		if !user.IsPaid {
			return response.PaymentRequired(c, "Payment required to access this resource")
		}
		if !user.HasActivePlan(time.Now()) {
			return response.PaymentRequired(c, "Plan expired. Please pay again.")
		}

		c.Locals("user", &user)
		return c.Next()
	}
}
