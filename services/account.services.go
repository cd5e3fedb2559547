package services

import (
	"database/sql"

	"chatterbug_server/errors"
	"chatterbug_server/helpers"
	"chatterbug_server/schemas"
	"chatterbug_server/storage"

	"github.com/gofiber/fiber/v2"
)

// GetAccount returns the authenticated member's own profile.
func (s *Service) GetAccount(c *fiber.Ctx) error {

	var profile schemas.ProfileResponse
	err := s.DB.GetContext(c.Context(), &profile, `
		SELECT memberid, firstname, lastname, username, email, verification
		FROM members WHERE memberid = $1`,
		memberID(c),
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return errors.HandleNotFoundError(c, "user not found")
		}
		return errors.HandleSQLError(c, "member select", err)
	}

	return c.JSON(profile)
}

var changeableColumns = map[string]string{
	"first":    "firstname",
	"last":     "lastname",
	"username": "username",
}

// ChangeAccount renames one member field. type selects the column; only
// first, last, and username are changeable.
func (s *Service) ChangeAccount(c *fiber.Ctx) error {

	userID, err := helpers.ParseStringToInt(c.Params("userid"))
	if err != nil {
		return errors.HandleBadRequestError(c, "Malformed parameter. userid must be a number")
	}

	column, ok := changeableColumns[c.Params("type")]
	if !ok {
		return errors.HandleBadRequestError(c, "Malformed parameter. type must be first, last, or username")
	}

	newName := c.Params("newname")
	if !helpers.IsStringProvided(newName) {
		return errors.HandleBadRequestError(c, "Missing required information")
	}

	res, err := s.DB.ExecContext(c.Context(),
		`UPDATE members SET `+column+` = $1 WHERE memberid = $2`,
		newName, userID,
	)
	if err != nil {
		if storage.UniqueConstraint(err) == "members_username_key" {
			return errors.HandleBadRequestError(c, "Username exists")
		}
		return errors.HandleSQLError(c, "member update", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return errors.HandleNotFoundError(c, "user not found")
	}

	return helpers.OKResponse(c)
}

// DeleteAccount removes a member and its credential row by email. The two
// deletes run in order without a transaction, matching the rest of the
// multi-statement pipelines.
func (s *Service) DeleteAccount(c *fiber.Ctx) error {

	email := c.Params("email")
	if !helpers.IsStringProvided(email) {
		return errors.HandleBadRequestError(c, "Missing required information")
	}

	_, err := s.DB.ExecContext(c.Context(), `
		DELETE FROM credentials
		WHERE memberid = (SELECT memberid FROM members WHERE email = $1)`,
		email,
	)
	if err != nil {
		return errors.HandleSQLError(c, "credentials delete", err)
	}

	res, err := s.DB.ExecContext(c.Context(), `
		DELETE FROM members WHERE email = $1`,
		email,
	)
	if err != nil {
		return errors.HandleSQLError(c, "member delete", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return errors.HandleNotFoundError(c, "Failed to delete: Resource does not exist")
	}

	return c.Status(fiber.StatusAccepted).JSON(schemas.MessageResponse{
		Message: "Delete successful",
	})
}
