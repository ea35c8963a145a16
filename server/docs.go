package server

import (
	_ "embed"

	"github.com/gofiber/fiber/v2"
)

//go:embed docs.html
var docsHTML string

func (s *Server) handleDocs(c *fiber.Ctx) error {
	c.Type("html")
	return c.SendString(docsHTML)
}
