package handlers

import "github.com/gofiber/fiber/v2"

const layout = "layouts/main"

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if rid, ok := c.Locals("requestid").(string); ok {
		data["RequestID"] = rid
	}
	data["Path"] = c.Path()
	return c.Render(tmpl, data, layout)
}
