package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"leadengine/internal/model"
	"leadengine/internal/repository"
	"leadengine/internal/service"
	"leadengine/internal/whop"
)

// ListMembers returns the caller's community members.
func ListMembers(members service.MemberService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := repository.MemberFilter{
			Status:    model.MemberStatus(c.Query("status")),
			ChurnRisk: model.ChurnRisk(c.Query("churn_risk")),
		}
		if f.Status != "" && !f.Status.Valid() {
			return writeError(c, fiber.StatusBadRequest, "INVALID_STATUS", "unknown member status")
		}
		if f.ChurnRisk != "" && !f.ChurnRisk.Valid() {
			return writeError(c, fiber.StatusBadRequest, "INVALID_RISK", "unknown churn risk")
		}

		res, err := members.List(c.UserContext(), currentUser(c).ID, f)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"data": res, "total": len(res)})
	}
}

// SyncMembers pulls memberships from the platform API for the caller.
func SyncMembers(members service.MemberService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := members.Sync(c.UserContext(), currentUser(c))
		if err != nil {
			switch {
			case errors.Is(err, service.ErrAPIKeyMissing):
				return writeError(c, fiber.StatusBadRequest, "API_KEY_MISSING", "platform api key is not configured")
			case errors.Is(err, service.ErrCommunityMissing):
				return writeError(c, fiber.StatusBadRequest, "COMMUNITY_MISSING", "community id is not configured")
			case errors.Is(err, whop.ErrUnauthorized):
				return writeError(c, fiber.StatusBadGateway, "PLATFORM_REJECTED", "platform rejected the api key")
			default:
				return writeError(c, fiber.StatusBadGateway, "PLATFORM_ERROR", "platform api unavailable")
			}
		}
		return c.JSON(res)
	}
}

// ChurnSummary returns churn band counts plus the at-risk members.
func ChurnSummary(members service.MemberService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sum, err := members.ChurnSummary(c.UserContext(), currentUser(c).ID)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(sum)
	}
}

// SendRetention sends a win-back message to one member.
func SendRetention(members service.MemberService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		rm, err := members.SendRetention(c.UserContext(), currentUser(c).ID, id)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrMemberNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "member not found")
			case errors.Is(err, service.ErrRetentionTooSoon):
				return writeError(c, fiber.StatusConflict, "RETENTION_TOO_SOON", "a retention message was sent recently")
			case errors.Is(err, service.ErrMemberNoEmail):
				return writeError(c, fiber.StatusBadRequest, "NO_EMAIL", "member has no email address")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.Status(fiber.StatusCreated).JSON(rm)
	}
}

// SendRetentionBatch sends win-back messages to the selected members.
// Per-member failures are reported, not fatal: one member inside the
// anti-spam window must not block the rest of the batch.
func SendRetentionBatch(members service.MemberService) fiber.Handler {
	type request struct {
		MemberIDs []string `json:"member_ids"`
	}
	type failure struct {
		MemberID string `json:"member_id"`
		Code     string `json:"code"`
	}
	return func(c *fiber.Ctx) error {
		var req request
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}
		if len(req.MemberIDs) == 0 {
			return writeError(c, fiber.StatusBadRequest, "NO_TARGETS", "member_ids is required")
		}

		sent := make([]model.RetentionMessage, 0, len(req.MemberIDs))
		failed := make([]failure, 0)
		for _, id := range req.MemberIDs {
			if _, err := uuid.Parse(id); err != nil {
				failed = append(failed, failure{MemberID: id, Code: "INVALID_ID"})
				continue
			}
			rm, err := members.SendRetention(c.UserContext(), currentUser(c).ID, id)
			if err != nil {
				switch {
				case errors.Is(err, service.ErrMemberNotFound):
					failed = append(failed, failure{MemberID: id, Code: "NOT_FOUND"})
				case errors.Is(err, service.ErrRetentionTooSoon):
					failed = append(failed, failure{MemberID: id, Code: "RETENTION_TOO_SOON"})
				case errors.Is(err, service.ErrMemberNoEmail):
					failed = append(failed, failure{MemberID: id, Code: "NO_EMAIL"})
				default:
					return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
				}
				continue
			}
			sent = append(sent, *rm)
		}
		return c.JSON(fiber.Map{
			"sent":   sent,
			"failed": failed,
		})
	}
}

// ListRetentionMessages returns the retention history for one member.
func ListRetentionMessages(members service.MemberService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		msgs, err := members.ListRetentionMessages(c.UserContext(), currentUser(c).ID, id)
		if err != nil {
			if errors.Is(err, service.ErrMemberNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "member not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"data": msgs, "total": len(msgs)})
	}
}
