package services

import (
	"chatterbug_server/errors"
	"chatterbug_server/helpers"
	"chatterbug_server/schemas"

	"github.com/gofiber/fiber/v2"
)

// RegisterPushToken upserts the caller's device token. One token per member;
// re-registering from a new device replaces the old one.
func (s *Service) RegisterPushToken(c *fiber.Ctx) error {

	me := memberID(c)

	req := new(schemas.PushTokenSchema)
	if err := c.BodyParser(req); err != nil {
		return errors.HandleBadJsonError(c)
	}
	if err := validate.Struct(req); err != nil {
		return errors.HandleValidatorError(c, err)
	}

	if err := s.requireMember(c, me); err != nil {
		return err
	}

	_, err := s.DB.ExecContext(c.Context(), `
		INSERT INTO push_token(memberid, token)
		VALUES ($1, $2)
		ON CONFLICT (memberid) DO UPDATE SET token = $2`,
		me, req.Token,
	)
	if err != nil {
		return errors.HandleSQLError(c, "push token upsert", err)
	}

	return helpers.OKResponse(c)
}

// DeletePushToken unregisters the caller's device on sign-out.
func (s *Service) DeletePushToken(c *fiber.Ctx) error {

	me := memberID(c)

	if err := s.requireMember(c, me); err != nil {
		return err
	}

	_, err := s.DB.ExecContext(c.Context(), `
		DELETE FROM push_token WHERE memberid = $1`,
		me,
	)
	if err != nil {
		return errors.HandleSQLError(c, "push token delete", err)
	}

	return helpers.OKResponse(c)
}

// requireMember guards against tokens naming a deleted member. Should not
// happen for tokens this service signed, but the account-delete route makes
// it possible.
func (s *Service) requireMember(c *fiber.Ctx, id int) error {

	var count int
	err := s.DB.GetContext(c.Context(), &count, `
		SELECT count(*) FROM members WHERE memberid = $1`,
		id,
	)
	if err != nil {
		return errors.HandleSQLError(c, "member select", err)
	}
	if count == 0 {
		return errors.HandleNotFoundError(c, "user not found")
	}
	return nil
}
