package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/terranastra/terran/internal/core/domain"
	"github.com/terranastra/terran/internal/core/ports"
)

// StatusHandler exposes installation checks and the managed container over HTTP.
type StatusHandler struct {
	checker     ports.ToolChecker
	provisioner ports.ProvisioningService
	lock        ports.Lock
	tools       []domain.Tool

	Logger logrus.FieldLogger
}

func NewStatusHandler(checker ports.ToolChecker, provisioner ports.ProvisioningService, lock ports.Lock, tools ...domain.Tool) *StatusHandler {
	if len(tools) == 0 {
		tools = []domain.Tool{domain.Git, domain.Docker}
	}
	return &StatusHandler{
		checker:     checker,
		provisioner: provisioner,
		lock:        lock,
		tools:       tools,
		Logger:      logrus.StandardLogger(),
	}
}

type toolResponse struct {
	Tool    string `json:"tool"`
	OK      bool   `json:"ok"`
	Version string `json:"version,omitempty"`
	Hint    string `json:"hint,omitempty"`
	Error   string `json:"error,omitempty"`
}

type containerResponse struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Present bool   `json:"present"`
	Running bool   `json:"running"`
}

type outcomeResponse struct {
	Name   string `json:"name"`
	State  string `json:"state"`
	OK     bool   `json:"ok"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (h *StatusHandler) ListTools(c *fiber.Ctx) error {
	results := h.checker.CheckAll(c.UserContext(), h.tools...)
	resp := make([]toolResponse, 0, len(results))
	for _, r := range results {
		tr := toolResponse{Tool: r.Tool, OK: r.OK, Version: r.Version, Hint: r.Hint}
		if r.Err != nil {
			tr.Error = r.Err.Error()
		}
		resp = append(resp, tr)
	}
	return c.JSON(resp)
}

func (h *StatusHandler) GetContainer(c *fiber.Ctx) error {
	st := h.provisioner.Status(c.UserContext())
	return c.JSON(containerResponse{
		Name:    h.provisioner.Target().ContainerName,
		Status:  st.String(),
		Present: st.Present,
		Running: st.IsRunning(),
	})
}

func (h *StatusHandler) ProvisionContainer(c *fiber.Ctx) error {
	if err := h.lock.TryAcquire(); err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, domain.ErrLocked) {
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	defer func() {
		if err := h.lock.Release(); err != nil {
			h.Logger.WithError(err).Warn("failed to release run lock")
		}
	}()

	o := h.provisioner.Provision(c.UserContext())
	resp := outcomeResponse{
		Name:   h.provisioner.Target().ContainerName,
		State:  string(o.State),
		OK:     o.OK(),
		Status: o.Status.String(),
		Error:  o.Error(),
	}
	if !o.OK() {
		return c.Status(fiber.StatusInternalServerError).JSON(resp)
	}
	return c.JSON(resp)
}

// NewApp wires the handler into a fiber app under /api/v1.
func NewApp(h *StatusHandler) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	v1 := app.Group("/api").Group("/v1")
	v1.Get("/tools", h.ListTools)

	v1.Get("/container", h.GetContainer)
	v1.Post("/container/provision", h.ProvisionContainer)

	return app
}
