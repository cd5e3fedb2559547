package services

import (
	"context"
	"database/sql"

	"chatterbug_server/errors"
	"chatterbug_server/helpers"
	"chatterbug_server/push"
	"chatterbug_server/schemas"

	"github.com/gofiber/fiber/v2"
)

// FriendsList returns the caller's accepted contacts. An accepted friendship
// is stored as two directed rows; listing only needs the caller's direction.
func (s *Service) FriendsList(c *fiber.Ctx) error {

	rows := []schemas.FriendRow{}
	err := s.DB.SelectContext(c.Context(), &rows, `
		SELECT members.memberid, firstname, lastname, username, email
		FROM contacts
		INNER JOIN members ON members.memberid = contacts.memberid_b
		WHERE contacts.memberid_a = $1 AND contacts.verified = 1
		ORDER BY lastname ASC`,
		memberID(c),
	)
	if err != nil {
		return errors.HandleSQLError(c, "contacts select", err)
	}

	return c.JSON(schemas.FriendsListResponse{
		RowCount: len(rows),
		Rows:     rows,
	})
}

// FriendRequests returns the pending requests waiting on the caller.
func (s *Service) FriendRequests(c *fiber.Ctx) error {

	rows := []schemas.FriendRow{}
	err := s.DB.SelectContext(c.Context(), &rows, `
		SELECT members.memberid, firstname, lastname, username, email
		FROM contacts
		INNER JOIN members ON members.memberid = contacts.memberid_a
		WHERE contacts.memberid_b = $1 AND contacts.verified = 0
		ORDER BY lastname ASC`,
		memberID(c),
	)
	if err != nil {
		return errors.HandleSQLError(c, "contacts select", err)
	}

	return c.JSON(schemas.FriendsListResponse{
		RowCount: len(rows),
		Rows:     rows,
	})
}

// RequestFriend inserts a pending contact edge toward the target member and
// notifies the target's device, if one is registered. A contact row in either
// direction blocks a duplicate request.
func (s *Service) RequestFriend(c *fiber.Ctx) error {

	me := memberID(c)

	req := new(schemas.ContactSchema)
	if err := c.BodyParser(req); err != nil {
		return errors.HandleBadJsonError(c)
	}
	if err := validate.Struct(req); err != nil {
		return errors.HandleValidatorError(c, err)
	}

	var targetCount int
	err := s.DB.GetContext(c.Context(), &targetCount, `
		SELECT count(*) FROM members WHERE memberid = $1`,
		req.MemberID,
	)
	if err != nil {
		return errors.HandleSQLError(c, "member select", err)
	}
	if targetCount == 0 {
		return errors.HandleNotFoundError(c, "member not found")
	}

	var existing int
	err = s.DB.GetContext(c.Context(), &existing, `
		SELECT count(*) FROM contacts
		WHERE (memberid_a = $1 AND memberid_b = $2)
		   OR (memberid_a = $2 AND memberid_b = $1)`,
		me, req.MemberID,
	)
	if err != nil {
		return errors.HandleSQLError(c, "contacts select", err)
	}
	if existing > 0 {
		return errors.HandleBadRequestError(c, "already pending or friends")
	}

	_, err = s.DB.ExecContext(c.Context(), `
		INSERT INTO contacts(memberid_a, memberid_b, verified)
		VALUES ($1, $2, 0)`,
		me, req.MemberID,
	)
	if err != nil {
		return errors.HandleSQLError(c, "contacts insert", err)
	}

	var requester schemas.SearchResponse
	err = s.DB.GetContext(c.Context(), &requester, `
		SELECT firstname, lastname, username FROM members WHERE memberid = $1`,
		me,
	)
	if err != nil {
		return errors.HandleSQLError(c, "member select", err)
	}

	// Success regardless of whether the target registered a device.
	var token string
	err = s.DB.GetContext(c.Context(), &token, `
		SELECT token FROM push_token WHERE memberid = $1`,
		req.MemberID,
	)
	switch {
	case err == nil:
		payload := push.FriendRequestPayload{
			Type:     push.TypeFriendRequest,
			Email:    memberEmail(c),
			Username: requester.Username,
		}
		go func() {
			if err := s.Push.Send(context.Background(), token, payload); err != nil {
				errors.MonitorLogger.Println("push send error: " + err.Error())
			}
		}()
	case err != sql.ErrNoRows:
		errors.MonitorLogger.Println("push token lookup error: " + err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
	})
}

// VerifyFriend accepts a pending request. After this both directed rows exist
// with verified=1.
func (s *Service) VerifyFriend(c *fiber.Ctx) error {

	me := memberID(c)

	req := new(schemas.ContactSchema)
	if err := c.BodyParser(req); err != nil {
		return errors.HandleBadJsonError(c)
	}
	if err := validate.Struct(req); err != nil {
		return errors.HandleValidatorError(c, err)
	}

	res, err := s.DB.ExecContext(c.Context(), `
		UPDATE contacts SET verified = 1
		WHERE memberid_a = $1 AND memberid_b = $2 AND verified = 0`,
		req.MemberID, me,
	)
	if err != nil {
		return errors.HandleSQLError(c, "contacts update", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return errors.HandleNotFoundError(c, "no pending friend request")
	}

	_, err = s.DB.ExecContext(c.Context(), `
		INSERT INTO contacts(memberid_a, memberid_b, verified)
		VALUES ($1, $2, 1)
		ON CONFLICT (memberid_a, memberid_b) DO UPDATE SET verified = 1`,
		me, req.MemberID,
	)
	if err != nil {
		return errors.HandleSQLError(c, "contacts insert", err)
	}

	return helpers.OKResponse(c)
}

// RemoveFriend deletes the contact edges in both directions.
func (s *Service) RemoveFriend(c *fiber.Ctx) error {

	other, err := helpers.ParseStringToInt(c.Params("memberid"))
	if err != nil {
		return errors.HandleBadRequestError(c, "Malformed parameter. memberid must be a number")
	}

	_, err = s.DB.ExecContext(c.Context(), `
		DELETE FROM contacts
		WHERE (memberid_a = $1 AND memberid_b = $2)
		   OR (memberid_a = $2 AND memberid_b = $1)`,
		memberID(c), other,
	)
	if err != nil {
		return errors.HandleSQLError(c, "contacts delete", err)
	}

	return helpers.OKResponse(c)
}
