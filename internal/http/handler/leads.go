package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"leadengine/internal/model"
	"leadengine/internal/repository"
	"leadengine/internal/service"
)

// CreateLead stores a new scored lead.
func CreateLead(leads service.LeadService) fiber.Handler {
	type request struct {
		Name          string `json:"name"`
		Email         string `json:"email"`
		Username      string `json:"username"`
		ProfileURL    string `json:"profile_url"`
		Source        string `json:"source"`
		Content       string `json:"content"`
		ContactMethod string `json:"contact_method"`
	}
	return func(c *fiber.Ctx) error {
		var req request
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		l, err := leads.Create(c.UserContext(), currentUser(c).ID, service.LeadInput{
			Name:          req.Name,
			Email:         req.Email,
			Username:      req.Username,
			ProfileURL:    req.ProfileURL,
			Source:        model.LeadSource(req.Source),
			Content:       req.Content,
			ContactMethod: req.ContactMethod,
		})
		if err != nil {
			switch {
			case errors.Is(err, service.ErrDuplicateLead):
				return writeError(c, fiber.StatusConflict, "DUPLICATE_LEAD", "lead already exists")
			case errors.Is(err, service.ErrInvalidSource):
				return writeError(c, fiber.StatusBadRequest, "INVALID_SOURCE", "unknown lead source")
			case errors.Is(err, service.ErrLeadNameMissing):
				return writeError(c, fiber.StatusBadRequest, "IDENTITY_REQUIRED", "a name, username or email is required")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.Status(fiber.StatusCreated).JSON(l)
	}
}

// ListLeads returns a filtered page of the caller's leads.
func ListLeads(leads service.LeadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, err := strconv.Atoi(c.Query("page", "1"))
		if err != nil || page < 1 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PAGE", "invalid page")
		}
		perPage, err := strconv.Atoi(c.Query("per_page", "20"))
		if err != nil || perPage < 1 {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PER_PAGE", "invalid per_page")
		}
		if perPage > 100 {
			perPage = 100
		}

		f := repository.LeadFilter{
			Status:       model.LeadStatus(c.Query("status")),
			Source:       model.LeadSource(c.Query("source")),
			QualityGrade: c.Query("quality_grade"),
		}
		res, err := leads.List(c.UserContext(), currentUser(c).ID, f, perPage, (page-1)*perPage)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrInvalidStatus):
				return writeError(c, fiber.StatusBadRequest, "INVALID_STATUS", "unknown lead status")
			case errors.Is(err, service.ErrInvalidSource):
				return writeError(c, fiber.StatusBadRequest, "INVALID_SOURCE", "unknown lead source")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}

		totalPages := res.Total / perPage
		if res.Total%perPage != 0 {
			totalPages++
		}
		return c.JSON(fiber.Map{
			"data":        res.Items,
			"total":       res.Total,
			"page":        page,
			"per_page":    perPage,
			"total_pages": totalPages,
		})
	}
}

// GetLead returns a single lead by ID.
func GetLead(leads service.LeadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		l, err := leads.Get(c.UserContext(), currentUser(c).ID, id)
		if err != nil {
			if errors.Is(err, service.ErrLeadNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "lead not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(l)
	}
}

// UpdateLead applies a partial update to one lead.
func UpdateLead(leads service.LeadService) fiber.Handler {
	type request struct {
		Name          *string `json:"name"`
		Email         *string `json:"email"`
		Status        *string `json:"status"`
		ContactMethod *string `json:"contact_method"`
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

		upd := service.LeadUpdate{
			Name:          req.Name,
			Email:         req.Email,
			ContactMethod: req.ContactMethod,
		}
		if req.Status != nil {
			st := model.LeadStatus(*req.Status)
			upd.Status = &st
		}

		l, err := leads.Update(c.UserContext(), currentUser(c).ID, id, upd)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrLeadNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "lead not found")
			case errors.Is(err, service.ErrInvalidStatus):
				return writeError(c, fiber.StatusBadRequest, "INVALID_STATUS", "unknown lead status")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.JSON(l)
	}
}

// DeleteLead removes one lead.
func DeleteLead(leads service.LeadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := leads.Delete(c.UserContext(), currentUser(c).ID, id); err != nil {
			if errors.Is(err, service.ErrLeadNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "lead not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ImportLeads bulk-creates leads from an uploaded CSV (field name: file).
func ImportLeads(leads service.LeadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		res, err := leads.Import(c.UserContext(), currentUser(c).ID, f)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_CSV", "csv could not be parsed")
		}
		return c.JSON(res)
	}
}

// ExportLeads writes the caller's leads to object storage and returns a
// time-limited download URL.
func ExportLeads(leads service.LeadService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := leads.Export(c.UserContext(), currentUser(c).ID)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}
