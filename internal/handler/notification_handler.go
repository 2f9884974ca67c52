package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abdarbaaz-byte/studyscrip-push/internal/domain"
	"github.com/abdarbaaz-byte/studyscrip-push/internal/observability"
	"github.com/gofiber/fiber/v2"
)

type NotificationService interface {
	Create(ctx context.Context, title, description string) (*domain.NotificationRecord, error)
	GetByID(ctx context.Context, id string) (*domain.NotificationRecord, error)
}

type NotificationHandler struct {
	service NotificationService
}

func NewNotificationHandler(service NotificationService) (*NotificationHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("notification service is required")
	}
	return &NotificationHandler{service: service}, nil
}

func RegisterNotificationRoutes(router fiber.Router, service NotificationService) error {
	h, err := NewNotificationHandler(service)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Post("/notifications", h.CreateNotification)
	v1.Get("/notifications/:id", h.GetNotification)

	return nil
}

type createNotificationRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type notificationResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (h *NotificationHandler) CreateNotification(c *fiber.Ctx) error {
	var req createNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	ctx := observability.WithCorrelationID(c.Context(), requestCorrelationID(c))

	record, err := h.service.Create(ctx, req.Title, req.Description)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusAccepted).JSON(toNotificationResponse(record))
}

func (h *NotificationHandler) GetNotification(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	record, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toNotificationResponse(record))
}

func toNotificationResponse(record *domain.NotificationRecord) notificationResponse {
	if record == nil {
		return notificationResponse{}
	}
	return notificationResponse{
		ID:          record.ID,
		Title:       record.Title,
		Description: record.Description,
		CreatedAt:   record.CreatedAt,
	}
}

func requestCorrelationID(c *fiber.Ctx) string {
	if value := strings.TrimSpace(c.Get(fiber.HeaderXRequestID)); value != "" {
		return value
	}
	if value, ok := c.Locals("requestid").(string); ok {
		return strings.TrimSpace(value)
	}
	return ""
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	default:
		return err
	}
}
