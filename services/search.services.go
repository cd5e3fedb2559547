package services

import (
	"database/sql"

	"chatterbug_server/errors"
	"chatterbug_server/schemas"

	"github.com/gofiber/fiber/v2"
)

// SearchByEmail looks up a member's public profile fields by email address.
func (s *Service) SearchByEmail(c *fiber.Ctx) error {

	email := c.Params("email")

	var result schemas.SearchResponse
	err := s.DB.GetContext(c.Context(), &result, `
		SELECT firstname, lastname, username FROM members WHERE email = $1`,
		email,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return errors.HandleNotFoundError(c, "user not found")
		}
		return errors.HandleSQLError(c, "member select", err)
	}

	return c.JSON(result)
}
