package web

import (
	_ "embed"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/teslashibe/go-rover/pkg/hub"
)

//go:embed index.html
var indexHTML []byte

func (s *Server) handleIndex(c *fiber.Ctx) error {
	c.Type("html")
	return c.Send(indexHTML)
}

// handleStatus returns the current status.
func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.Snapshot())
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"run_id": s.cfg.RunID,
	})
}

// handleStatusWS sends the current status, then every update.
func (s *Server) handleStatusWS(c *websocket.Conn) {
	data, err := json.Marshal(s.Snapshot())
	if err != nil {
		s.logger.Debug("encode status", "error", err)
		return
	}
	if client := hub.NewClient(s.statusHub, c, hub.NewJSONMessage(data)); client != nil {
		client.Run()
	}
}

func (s *Server) handleCameraWS(c *websocket.Conn) {
	if client := hub.NewClient(s.cameraHub, c); client != nil {
		client.Run()
	}
}
