package helpers

import (
	"strconv"

	nanoid "github.com/aidarkhanov/nanoid/v2"
	"github.com/gofiber/fiber/v2"
)

const tempPasswordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789@#$"

// TempPassword generates a random temporary password for the forgot-password
// flow.
func TempPassword(size int) (string, error) {
	return nanoid.GenerateString(tempPasswordAlphabet, size)
}

// ParseStringToInt parses a decimal route or query parameter.
func ParseStringToInt(s string) (int, error) {
	return strconv.Atoi(s)
}

// OKResponse sends the plain success body used by mutation routes without
// route-specific fields.
func OKResponse(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
	})
}
