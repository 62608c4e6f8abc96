package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"leadengine/internal/model"
	"leadengine/internal/service"
)

// CreateCampaign stores a new draft campaign.
func CreateCampaign(campaigns service.CampaignService) fiber.Handler {
	type request struct {
		Name                   string `json:"name"`
		Description            string `json:"description"`
		SubjectTemplate        string `json:"subject_template"`
		MessageTemplate        string `json:"message_template"`
		PersonalizationEnabled bool   `json:"personalization_enabled"`
	}
	return func(c *fiber.Ctx) error {
		var req request
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		camp, err := campaigns.Create(c.UserContext(), currentUser(c).ID, service.CampaignInput{
			Name:                   req.Name,
			Description:            req.Description,
			SubjectTemplate:        req.SubjectTemplate,
			MessageTemplate:        req.MessageTemplate,
			PersonalizationEnabled: req.PersonalizationEnabled,
		})
		if err != nil {
			switch {
			case errors.Is(err, service.ErrCampaignNameMissing):
				return writeError(c, fiber.StatusBadRequest, "NAME_REQUIRED", "campaign name is required")
			case errors.Is(err, service.ErrTemplateMissing):
				return writeError(c, fiber.StatusBadRequest, "TEMPLATE_REQUIRED", "message template is required")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.Status(fiber.StatusCreated).JSON(camp)
	}
}

// ListCampaigns returns the caller's campaigns.
func ListCampaigns(campaigns service.CampaignService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := campaigns.List(c.UserContext(), currentUser(c).ID)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"data": res, "total": len(res)})
	}
}

// GetCampaign returns one campaign by ID.
func GetCampaign(campaigns service.CampaignService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		camp, err := campaigns.Get(c.UserContext(), currentUser(c).ID, id)
		if err != nil {
			if errors.Is(err, service.ErrCampaignNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "campaign not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(camp)
	}
}

// ListCampaignMessages returns the outreach messages of one campaign.
func ListCampaignMessages(campaigns service.CampaignService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		msgs, err := campaigns.ListMessages(c.UserContext(), currentUser(c).ID, id)
		if err != nil {
			if errors.Is(err, service.ErrCampaignNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "campaign not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"data": msgs, "total": len(msgs)})
	}
}

// TrackMessage records an engagement event on an outreach message. Repeat
// events for the same message are accepted and ignored.
func TrackMessage(campaigns service.CampaignService) fiber.Handler {
	type request struct {
		Event string `json:"event"`
	}
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req request
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		event := model.MessageEvent(req.Event)
		if err := campaigns.Track(c.UserContext(), currentUser(c).ID, id, event); err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidEvent):
				return writeError(c, fiber.StatusBadRequest, "INVALID_EVENT", "event must be opened, clicked or replied")
			case errors.Is(err, service.ErrMessageNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "outreach message not found")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.JSON(fiber.Map{"status": "tracked", "event": event})
	}
}

// SendCampaign queues outreach messages for the given leads.
func SendCampaign(campaigns service.CampaignService) fiber.Handler {
	type request struct {
		LeadIDs []string `json:"lead_ids"`
	}
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var req request
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		out, err := campaigns.Send(c.UserContext(), currentUser(c), id, req.LeadIDs)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrCampaignNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "campaign not found")
			case errors.Is(err, service.ErrCampaignFinished):
				return writeError(c, fiber.StatusConflict, "CAMPAIGN_COMPLETED", "campaign is completed")
			case errors.Is(err, service.ErrNoTargets):
				return writeError(c, fiber.StatusBadRequest, "NO_TARGETS", "lead_ids is required")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.Status(fiber.StatusAccepted).JSON(out)
	}
}
