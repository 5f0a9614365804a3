package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/paradox-app/paradox/internal/ports"
)

type ShareHandler struct {
	share ports.ShareService
	log   *zap.Logger
}

func NewShareHandler(share ports.ShareService, log *zap.Logger) *ShareHandler {
	return &ShareHandler{
		share: share,
		log:   log,
	}
}

type ShareLinkRequest struct {
	Platform string `json:"platform"`
}

func (h *ShareHandler) GetLink(c *fiber.Ctx) error {
	var req ShareLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": "Invalid request body"})
	}

	userID, _ := c.Locals("user_id").(string)
	link, err := h.share.GetOrCreateLink(c.Context(), userID, req.Platform)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "link": link})
}

// TrackClick is unauthenticated: the tracking code arrives from a
// shared URL and redirects to the signup page.
func (h *ShareHandler) TrackClick(c *fiber.Ctx) error {
	code := c.Params("code")
	link, err := h.share.RecordClick(c.Context(), code, c.Get("User-Agent"), c.IP())
	if err != nil {
		return err
	}
	return c.Redirect(link.URL, fiber.StatusFound)
}
