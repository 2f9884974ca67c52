package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type DeviceService interface {
	Register(ctx context.Context, token string) error
	Unregister(ctx context.Context, token string) error
}

type DeviceHandler struct {
	service DeviceService
}

func NewDeviceHandler(service DeviceService) (*DeviceHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("device service is required")
	}
	return &DeviceHandler{service: service}, nil
}

func RegisterDeviceRoutes(router fiber.Router, service DeviceService) error {
	h, err := NewDeviceHandler(service)
	if err != nil {
		return err
	}

	v1 := router.Group("/v1")
	v1.Put("/devices/:token", h.RegisterDevice)
	v1.Delete("/devices/:token", h.UnregisterDevice)

	return nil
}

func (h *DeviceHandler) RegisterDevice(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Params("token"))
	if err := h.service.Register(c.Context(), token); err != nil {
		return toHTTPError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *DeviceHandler) UnregisterDevice(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Params("token"))
	if err := h.service.Unregister(c.Context(), token); err != nil {
		return toHTTPError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
