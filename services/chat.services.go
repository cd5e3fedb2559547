package services

import (
	"database/sql"
	"time"

	"chatterbug_server/errors"
	"chatterbug_server/helpers"
	"chatterbug_server/push"
	"chatterbug_server/schemas"

	"github.com/gofiber/fiber/v2"
)

// CreateChat inserts a named chat room.
func (s *Service) CreateChat(c *fiber.Ctx) error {

	req := new(schemas.ChatSchema)
	if err := c.BodyParser(req); err != nil {
		return errors.HandleBadJsonError(c)
	}
	if err := validate.Struct(req); err != nil {
		return errors.HandleValidatorError(c, err)
	}

	var chatID int
	err := s.DB.GetContext(c.Context(), &chatID, `
		INSERT INTO chats(name) VALUES ($1) RETURNING chatid`,
		req.Name,
	)
	if err != nil {
		return errors.HandleSQLError(c, "chat insert", err)
	}

	return c.Status(fiber.StatusCreated).JSON(schemas.ChatCreatedResponse{
		Success: true,
		ChatID:  chatID,
	})
}

// JoinChat adds the authenticated member to a chat, seeds the activity
// preview with a blank message, and notifies every member's registered
// device. The blank insert is deliberate: the chat list preview reads the
// most recent message row.
func (s *Service) JoinChat(c *fiber.Ctx) error {

	chatID, err := helpers.ParseStringToInt(c.Params("chatId"))
	if err != nil {
		return errors.HandleBadRequestError(c, "Malformed parameter. chatId must be a number")
	}
	me := memberID(c)

	var chatName string
	err = s.DB.GetContext(c.Context(), &chatName, `
		SELECT name FROM chats WHERE chatid = $1`,
		chatID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return errors.HandleNotFoundError(c, "Chat ID not found")
		}
		return errors.HandleSQLError(c, "chat select", err)
	}

	var memberCount int
	err = s.DB.GetContext(c.Context(), &memberCount, `
		SELECT count(*) FROM members WHERE memberid = $1`,
		me,
	)
	if err != nil {
		return errors.HandleSQLError(c, "member select", err)
	}
	if memberCount == 0 {
		return errors.HandleNotFoundError(c, "user not found")
	}

	var joined int
	err = s.DB.GetContext(c.Context(), &joined, `
		SELECT count(*) FROM chatmembers WHERE chatid = $1 AND memberid = $2`,
		chatID, me,
	)
	if err != nil {
		return errors.HandleSQLError(c, "chatmembers select", err)
	}
	if joined > 0 {
		return errors.HandleBadRequestError(c, "user already joined")
	}

	_, err = s.DB.ExecContext(c.Context(), `
		INSERT INTO chatmembers(chatid, memberid) VALUES ($1, $2)`,
		chatID, me,
	)
	if err != nil {
		return errors.HandleSQLError(c, "chatmembers insert", err)
	}

	var usernames []string
	err = s.DB.SelectContext(c.Context(), &usernames, `
		SELECT username FROM members
		INNER JOIN chatmembers ON chatmembers.memberid = members.memberid
		WHERE chatmembers.chatid = $1`,
		chatID,
	)
	if err != nil {
		return errors.HandleSQLError(c, "usernames select", err)
	}

	var seed struct {
		Message   string    `db:"message"`
		Timestamp time.Time `db:"timestamp"`
	}
	err = s.DB.GetContext(c.Context(), &seed, `
		INSERT INTO messages(chatid, memberid, message)
		VALUES ($1, $2, '')
		RETURNING message, timestamp`,
		chatID, me,
	)
	if err != nil {
		return errors.HandleSQLError(c, "seed message insert", err)
	}

	go s.fanOutPush(chatID, push.ChatPayload{
		Type:          push.TypeChat,
		Usernames:     usernames,
		ChatID:        chatID,
		Name:          chatName,
		RecentMessage: seed.Message,
		Timestamp:     seed.Timestamp.UTC().Format(time.RFC3339),
	})

	return helpers.OKResponse(c)
}

// ChatList returns the caller's chats with the other members' usernames and
// the most recent message as the activity preview.
func (s *Service) ChatList(c *fiber.Ctx) error {

	me := memberID(c)

	previews := []schemas.ChatPreview{}
	err := s.DB.SelectContext(c.Context(), &previews, `
		SELECT DISTINCT ON (messages.chatid)
			messages.chatid, chats.name, messages.message, messages.timestamp
		FROM messages
		INNER JOIN chats ON chats.chatid = messages.chatid
		WHERE messages.chatid IN (SELECT chatid FROM chatmembers WHERE memberid = $1)
		ORDER BY messages.chatid, messages.primarykey DESC`,
		me,
	)
	if err != nil {
		return errors.HandleSQLError(c, "chat previews select", err)
	}

	var memberRows []struct {
		Username string `db:"username"`
		ChatID   int    `db:"chatid"`
	}
	err = s.DB.SelectContext(c.Context(), &memberRows, `
		SELECT members.username, chatmembers.chatid
		FROM chatmembers
		INNER JOIN members ON chatmembers.memberid = members.memberid
		WHERE chatmembers.chatid IN (SELECT chatid FROM chatmembers WHERE memberid = $1)
		  AND chatmembers.memberid != $1`,
		me,
	)
	if err != nil {
		return errors.HandleSQLError(c, "chat usernames select", err)
	}

	usernames := make(map[int][]string)
	for _, row := range memberRows {
		usernames[row.ChatID] = append(usernames[row.ChatID], row.Username)
	}
	for i := range previews {
		previews[i].Usernames = usernames[previews[i].ChatID]
		if previews[i].Usernames == nil {
			previews[i].Usernames = []string{}
		}
	}

	return c.JSON(schemas.ChatListResponse{Chats: previews})
}

// ChatMembers returns the emails of a chat's members.
func (s *Service) ChatMembers(c *fiber.Ctx) error {

	chatID, err := helpers.ParseStringToInt(c.Params("chatId"))
	if err != nil {
		return errors.HandleBadRequestError(c, "Malformed parameter. chatId must be a number")
	}

	if err := s.requireChat(c, chatID); err != nil {
		return err
	}

	rows := []schemas.ChatMemberRow{}
	err = s.DB.SelectContext(c.Context(), &rows, `
		SELECT members.email
		FROM chatmembers
		INNER JOIN members ON chatmembers.memberid = members.memberid
		WHERE chatmembers.chatid = $1`,
		chatID,
	)
	if err != nil {
		return errors.HandleSQLError(c, "chatmembers select", err)
	}

	return c.JSON(schemas.ChatMembersResponse{
		RowCount: len(rows),
		Rows:     rows,
	})
}

// RemoveChatMember deletes the member named by email from a chat. The target
// comes from the path, not the token: removing someone else is allowed.
func (s *Service) RemoveChatMember(c *fiber.Ctx) error {

	chatID, err := helpers.ParseStringToInt(c.Params("chatId"))
	if err != nil {
		return errors.HandleBadRequestError(c, "Malformed parameter. chatId must be a number")
	}
	email := c.Params("email")
	if !helpers.IsStringProvided(email) {
		return errors.HandleBadRequestError(c, "Missing required information")
	}

	if err := s.requireChat(c, chatID); err != nil {
		return err
	}

	var targetID int
	err = s.DB.GetContext(c.Context(), &targetID, `
		SELECT memberid FROM members WHERE email = $1`,
		email,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return errors.HandleNotFoundError(c, "email not found")
		}
		return errors.HandleSQLError(c, "member select", err)
	}

	var joined int
	err = s.DB.GetContext(c.Context(), &joined, `
		SELECT count(*) FROM chatmembers WHERE chatid = $1 AND memberid = $2`,
		chatID, targetID,
	)
	if err != nil {
		return errors.HandleSQLError(c, "chatmembers select", err)
	}
	if joined == 0 {
		return errors.HandleBadRequestError(c, "user not in chat")
	}

	_, err = s.DB.ExecContext(c.Context(), `
		DELETE FROM chatmembers WHERE chatid = $1 AND memberid = $2`,
		chatID, targetID,
	)
	if err != nil {
		return errors.HandleSQLError(c, "chatmembers delete", err)
	}

	return helpers.OKResponse(c)
}

// requireChat short-circuits with 404 when the chat does not exist.
func (s *Service) requireChat(c *fiber.Ctx, chatID int) error {

	var count int
	err := s.DB.GetContext(c.Context(), &count, `
		SELECT count(*) FROM chats WHERE chatid = $1`,
		chatID,
	)
	if err != nil {
		return errors.HandleSQLError(c, "chat select", err)
	}
	if count == 0 {
		return errors.HandleNotFoundError(c, "Chat ID not found")
	}
	return nil
}
