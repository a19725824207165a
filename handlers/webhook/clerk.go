package webhook

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	svix "github.com/svix/svix-webhooks/go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hiringbull/server/model"
	"github.com/hiringbull/server/utils/response"
)

// ClerkEvent is the identity provider's webhook envelope.
type ClerkEvent struct {
	Type string         `json:"type"`
	Data ClerkEventData `json:"data"`
}

// ClerkEventData carries the user fields this service syncs.
type ClerkEventData struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	ImageURL       string `json:"image_url"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

// PrimaryEmail returns the first email address in the event, if any.
func (d ClerkEventData) PrimaryEmail() string {
	if len(d.EmailAddresses) == 0 {
		return ""
	}
	return d.EmailAddresses[0].EmailAddress
}

// FullName joins the name parts the way the provider displays them.
func (d ClerkEventData) FullName() string {
	parts := []string{}
	if d.FirstName != "" {
		parts = append(parts, d.FirstName)
	}
	if d.LastName != "" {
		parts = append(parts, d.LastName)
	}
	if len(parts) == 0 {
		return "User"
	}
	return strings.Join(parts, " ")
}

// ClerkWebhookHandler syncs identity-provider user lifecycle events into the
// local user table.
type ClerkWebhookHandler struct {
	db     *gorm.DB
	secret string
}

// NewClerkWebhookHandler creates a new webhook handler
func NewClerkWebhookHandler(db *gorm.DB, secret string) *ClerkWebhookHandler {
	return &ClerkWebhookHandler{db: db, secret: secret}
}

// Handle processes POST /api/webhooks/clerk. Signature verification runs over
// the raw request body; every verified delivery is recorded as an audit row
// deduped by svix message id.
func (h *ClerkWebhookHandler) Handle(c *fiber.Ctx) error {
	if h.secret == "" {
		log.Println("CLERK_WEBHOOK_SECRET is not set")
		return response.InternalServerError(c, "Server configuration error")
	}

	svixID := c.Get("svix-id")
	svixTimestamp := c.Get("svix-timestamp")
	svixSignature := c.Get("svix-signature")
	if svixID == "" || svixTimestamp == "" || svixSignature == "" {
		return response.BadRequest(c, "Missing svix headers")
	}

	wh, err := svix.NewWebhook(h.secret)
	if err != nil {
		log.Println("Invalid webhook secret:", err)
		return response.InternalServerError(c, "Server configuration error")
	}

	payload := c.Body()
	headers := http.Header{}
	headers.Set("svix-id", svixID)
	headers.Set("svix-timestamp", svixTimestamp)
	headers.Set("svix-signature", svixSignature)

	if err := wh.Verify(payload, headers); err != nil {
		log.Println("Error verifying webhook:", err)
		return response.BadRequest(c, "Webhook signature verification failed")
	}

	var event ClerkEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return response.BadRequest(c, "Malformed webhook payload")
	}
	if event.Data.ID == "" {
		return response.BadRequest(c, "Webhook event has no user id")
	}

	log.Printf("Webhook received: %s for user %s", event.Type, event.Data.ID)

	audit := model.WebhookEvent{
		SvixID:    svixID,
		EventType: event.Type,
		Payload:   datatypes.JSON(payload),
	}
	if err := h.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&audit).Error; err != nil {
		return response.InternalServerError(c, "Failed to record webhook event")
	}

	switch event.Type {
	case "user.created", "user.updated":
		if err := h.upsertUser(event.Data); err != nil {
			return response.InternalServerError(c, "Failed to sync user")
		}
	case "user.deleted":
		// Ignore already-deleted users; redeliveries are expected.
		if err := h.db.Where("clerk_id = ?", event.Data.ID).Delete(&model.User{}).Error; err != nil {
			log.Printf("Error deleting user %s: %v", event.Data.ID, err)
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true})
}

func (h *ClerkWebhookHandler) upsertUser(data ClerkEventData) error {
	var user model.User
	err := h.db.Where("clerk_id = ?", data.ID).First(&user).Error
	switch err {
	case nil:
		user.Name = data.FullName()
		if email := data.PrimaryEmail(); email != "" {
			user.Email = email
		}
		if data.ImageURL != "" {
			user.ImgURL = data.ImageURL
		}
		return h.db.Save(&user).Error
	case gorm.ErrRecordNotFound:
		user = model.User{
			ClerkID: data.ID,
			Email:   data.PrimaryEmail(),
			Name:    data.FullName(),
			ImgURL:  data.ImageURL,
		}
		return h.db.Create(&user).Error
	default:
		return err
	}
}
