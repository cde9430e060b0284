package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Health Check Handlers
// ============================================================

var probeClient = &http.Client{Timeout: 2 * time.Second}

// LivenessProbe проверяет, что приложение работает
func LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// ReadinessProbe готов, когда отвечают все сервисы за шлюзом.
func ReadinessProbe(services map[string]string) fiber.Handler {
	return func(c fiber.Ctx) error {
		status := fiber.Map{}
		ready := true
		for name, url := range services {
			resp, err := probeClient.Get(strings.TrimRight(url, "/") + "/health/live")
			if err != nil {
				status[name] = "down"
				ready = false
				continue
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				status[name] = "down"
				ready = false
				continue
			}
			status[name] = "up"
		}

		if !ready {
			return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "not ready", "services": status})
		}
		return c.JSON(fiber.Map{"status": "ready", "services": status})
	}
}

// StartupProbe проверяет, что приложение успешно запустилось
func StartupProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "started",
	})
}
