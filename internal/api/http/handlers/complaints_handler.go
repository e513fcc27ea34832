package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-portal/internal/api/dto"
	"github.com/spec-kit/complaint-portal/internal/auth"
	"github.com/spec-kit/complaint-portal/internal/domain"
	"github.com/spec-kit/complaint-portal/internal/service"
)

// ComplaintsHandler exposes complaint intake, browsing and the status workflow.
type ComplaintsHandler struct {
	service *service.ComplaintService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService *service.ComplaintService) *ComplaintsHandler {
	return &ComplaintsHandler{service: complaintService}
}

// Create POST /complaints.
func (h *ComplaintsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateComplaintRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	complaint, err := h.service.CreateComplaint(c.UserContext(), auth.CallerFromContext(c), req.Input())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.Complaint(complaint)})
}

// List GET /complaints.
func (h *ComplaintsHandler) List(c *fiber.Ctx) error {
	filter := complaintFilter(c)
	page, pageSize := pagination(c)
	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize

	result, err := h.service.ListComplaints(c.UserContext(), auth.CallerFromContext(c), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.Complaints(result.Items),
		"meta": dto.PageMeta{Total: result.Total, Page: page, PageSize: pageSize},
	})
}

// Get GET /complaints/:reference.
func (h *ComplaintsHandler) Get(c *fiber.Ctx) error {
	complaint, err := h.service.GetComplaint(c.UserContext(), auth.CallerFromContext(c), c.Params("reference"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.Complaint(complaint)})
}

// Update PATCH /complaints/:reference.
func (h *ComplaintsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateComplaintRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	complaint, err := h.service.UpdateComplaintField(c.UserContext(), auth.CallerFromContext(c),
		c.Params("reference"), req.Field, req.Value)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.Complaint(complaint)})
}

// Statistics GET /complaints/statistics.
func (h *ComplaintsHandler) Statistics(c *fiber.Ctx) error {
	result, err := h.service.Statistics(c.UserContext(), auth.CallerFromContext(c), complaintFilter(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// Nearby GET /complaints/nearby.
func (h *ComplaintsHandler) Nearby(c *fiber.Ctx) error {
	lat, err := parseFloat(c, "lat", true)
	if err != nil {
		return err
	}
	lng, err := parseFloat(c, "lng", true)
	if err != nil {
		return err
	}
	radius, err := parseFloat(c, "radius_km", false)
	if err != nil {
		return err
	}
	result, err := h.service.Nearby(c.UserContext(), auth.CallerFromContext(c),
		domain.GeoPoint{Latitude: lat, Longitude: lng}, radius)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.Nearby(result)})
}

// History GET /complaints/:reference/history.
func (h *ComplaintsHandler) History(c *fiber.Ctx) error {
	entries, err := h.service.History(c.UserContext(), auth.CallerFromContext(c), c.Params("reference"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.History(entries)})
}

// SubmitFeedback POST /complaints/:reference/feedback.
func (h *ComplaintsHandler) SubmitFeedback(c *fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	feedback, err := h.service.SubmitFeedback(c.UserContext(), auth.CallerFromContext(c), c.Params("reference"),
		service.FeedbackInput{Rating: req.Rating, Comments: req.Comments, WouldRecommend: req.WouldRecommend})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.Feedback(feedback)})
}

func complaintFilter(c *fiber.Ctx) domain.ComplaintFilter {
	return domain.ComplaintFilter{
		Status:     domain.ComplaintStatus(c.Query("status")),
		Priority:   domain.ComplaintPriority(c.Query("priority")),
		Department: c.Query("department"),
		Category:   c.Query("category"),
		Search:     c.Query("search"),
	}
}
