package services

import (
	"math"

	"chatterbug_server/errors"
	"chatterbug_server/helpers"
	"chatterbug_server/push"
	"chatterbug_server/schemas"

	"github.com/gofiber/fiber/v2"
)

const messagePageSize = 15

// messageCursor resolves the optional keyset cursor. Absent means "newest":
// the maximum representable message key.
func messageCursor(param string) (int, error) {
	if param == "" {
		return math.MaxInt32, nil
	}
	return helpers.ParseStringToInt(param)
}

// PostMessage appends a message to a chat the sender belongs to and fans out
// a push notification to every member's registered device.
func (s *Service) PostMessage(c *fiber.Ctx) error {

	me := memberID(c)

	req := new(schemas.NewMessageSchema)
	if err := c.BodyParser(req); err != nil {
		return errors.HandleBadJsonError(c)
	}
	if err := validate.Struct(req); err != nil {
		return errors.HandleValidatorError(c, err)
	}

	if err := s.requireChat(c, req.ChatID); err != nil {
		return err
	}

	var joined int
	err := s.DB.GetContext(c.Context(), &joined, `
		SELECT count(*) FROM chatmembers WHERE chatid = $1 AND memberid = $2`,
		req.ChatID, me,
	)
	if err != nil {
		return errors.HandleSQLError(c, "chatmembers select", err)
	}
	if joined == 0 {
		return errors.HandleBadRequestError(c, "user not in chat")
	}

	var row schemas.MessageRow
	err = s.DB.GetContext(c.Context(), &row, `
		INSERT INTO messages(chatid, memberid, message)
		VALUES ($1, $2, $3)
		RETURNING primarykey AS messageid, message, timestamp`,
		req.ChatID, me, req.Message,
	)
	if err != nil {
		return errors.HandleSQLError(c, "message insert", err)
	}
	row.Email = memberEmail(c)

	go s.fanOutPush(req.ChatID, push.MessagePayload{
		Type:    push.TypeMessage,
		Message: row,
		ChatID:  req.ChatID,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
	})
}

// MessageList returns the most recent page of messages older than the
// cursor: strictly smaller primary keys, newest first, capped at 15 rows.
func (s *Service) MessageList(c *fiber.Ctx) error {

	chatID, err := helpers.ParseStringToInt(c.Params("chatId"))
	if err != nil {
		return errors.HandleBadRequestError(c, "Malformed parameter. chatId must be a number")
	}

	cursor, err := messageCursor(c.Params("messageId"))
	if err != nil {
		return errors.HandleBadRequestError(c, "Malformed parameter. messageId must be a number")
	}

	if err := s.requireChat(c, chatID); err != nil {
		return err
	}

	rows := []schemas.MessageRow{}
	err = s.DB.SelectContext(c.Context(), &rows, `
		SELECT messages.primarykey AS messageid, members.email, messages.message, messages.timestamp
		FROM messages
		INNER JOIN members ON messages.memberid = members.memberid
		WHERE messages.chatid = $1 AND messages.primarykey < $2
		ORDER BY messages.timestamp DESC
		LIMIT $3`,
		chatID, cursor, messagePageSize,
	)
	if err != nil {
		return errors.HandleSQLError(c, "messages select", err)
	}

	return c.JSON(schemas.MessageListResponse{
		ChatID:   chatID,
		RowCount: len(rows),
		Rows:     rows,
	})
}
