package services

import (
	"database/sql"
	"encoding/base64"
	"strconv"
	"strings"

	"chatterbug_server/errors"
	"chatterbug_server/helpers"
	"chatterbug_server/schemas"
	"chatterbug_server/storage"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
)

func resetKey(memberID int) string {
	return "reset:" + strconv.Itoa(memberID)
}

// Register creates a member and its credential row, then emails a
// verification link. The two inserts are not wrapped in a transaction; a
// credential-insert failure leaves the member row behind (accepted gap).
func (s *Service) Register(c *fiber.Ctx) error {

	req := new(schemas.RegisterSchema)

	if err := c.BodyParser(req); err != nil {
		return errors.HandleBadJsonError(c)
	}
	if err := validate.Struct(req); err != nil {
		return errors.HandleValidatorError(c, err)
	}
	if !helpers.IsValidPassword(req.Password) {
		return errors.HandleBadRequestError(c, "Password does not meet requirements")
	}

	username := req.Username
	if !helpers.IsStringProvided(username) {
		username = req.Email
	}

	var newMemberID int
	err := s.DB.GetContext(c.Context(), &newMemberID, `
		INSERT INTO members(firstname, lastname, username, email)
		VALUES ($1, $2, $3, $4)
		RETURNING memberid`,
		req.First, req.Last, username, req.Email,
	)
	if err != nil {
		switch storage.UniqueConstraint(err) {
		case "members_username_key":
			return errors.HandleBadRequestError(c, "Username exists")
		case "members_email_key":
			return errors.HandleBadRequestError(c, "Email exists")
		}
		return errors.HandleSQLError(c, "member insert", err)
	}

	salt, err := helpers.GenerateSalt(32)
	if err != nil {
		return errors.HandleInternalError(c, "salt generation", err)
	}
	saltedHash := helpers.GenerateHash(req.Password, salt)

	_, err = s.DB.ExecContext(c.Context(), `
		INSERT INTO credentials(memberid, saltedhash, salt)
		VALUES ($1, $2, $3)`,
		newMemberID, saltedHash, salt,
	)
	if err != nil {
		return errors.HandleSQLError(c, "credentials insert", err)
	}

	token, err := helpers.SignToken(s.Config.TokenSecret,
		helpers.TokenClaims{MemberID: newMemberID, Email: req.Email},
		helpers.LinkTokenDuration)
	if err != nil {
		errors.MonitorLogger.Println("verification token error: " + err.Error())
	} else {
		link := s.Config.BaseURL + "/verify/" + token
		s.Mail.SendAsync(req.Email, "Chatterbug: Welcome to our App!",
			"<p>Please verify your email account using this link: <a href=\""+link+"\">"+link+"</a></p>")
	}

	return c.Status(fiber.StatusCreated).JSON(schemas.RegisterResponse{
		Success: true,
		Email:   req.Email,
	})
}

// SignIn authenticates Basic credentials and hands out a 14-day session
// token.
func (s *Service) SignIn(c *fiber.Ctx) error {

	authorization := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(authorization, "Basic ") {
		return errors.HandleBadRequestError(c, "Missing Authorization Header")
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(authorization, "Basic "))
	if err != nil {
		return errors.HandleBadRequestError(c, "Malformed Authorization Header")
	}
	email, password, ok := strings.Cut(string(decoded), ":")
	if !ok || !helpers.IsStringProvided(email) || !helpers.IsStringProvided(password) {
		return errors.HandleBadRequestError(c, "Malformed Authorization Header")
	}

	var cred struct {
		SaltedHash string `db:"saltedhash"`
		Salt       string `db:"salt"`
		MemberID   int    `db:"memberid"`
	}
	err = s.DB.GetContext(c.Context(), &cred, `
		SELECT saltedhash, salt, credentials.memberid FROM credentials
		INNER JOIN members ON credentials.memberid = members.memberid
		WHERE members.email = $1`,
		email,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return errors.HandleNotFoundError(c, "User not found")
		}
		return errors.HandleSQLError(c, "credentials select", err)
	}

	if helpers.GenerateHash(password, cred.Salt) != cred.SaltedHash {
		return errors.HandleBadRequestError(c, "Credentials did not match")
	}

	token, err := helpers.SignToken(s.Config.TokenSecret,
		helpers.TokenClaims{MemberID: cred.MemberID, Email: email},
		helpers.SessionTokenDuration)
	if err != nil {
		return errors.HandleInternalError(c, "session token", err)
	}

	return c.JSON(schemas.SignInResponse{
		Success:  true,
		Message:  "Authentication successful!",
		Token:    token,
		MemberID: cred.MemberID,
		Email:    email,
	})
}

// VerifyEmail flips the verification flag for the member named by the emailed
// token.
func (s *Service) VerifyEmail(c *fiber.Ctx) error {

	claims, err := helpers.ParseToken(s.Config.TokenSecret, c.Params("token"))
	if err != nil {
		return errors.HandleForbiddenError(c, "Token is not valid")
	}

	var pending int
	err = s.DB.GetContext(c.Context(), &pending, `
		SELECT memberid FROM members WHERE memberid = $1 AND verification = 0`,
		claims.MemberID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return errors.HandleBadRequestError(c, "This email has already been verified")
		}
		return errors.HandleSQLError(c, "verification select", err)
	}

	_, err = s.DB.ExecContext(c.Context(), `
		UPDATE members SET verification = 1 WHERE memberid = $1`,
		claims.MemberID,
	)
	if err != nil {
		return errors.HandleSQLError(c, "verification update", err)
	}

	return helpers.OKResponse(c)
}

// VerifyLanding serves the page the verification link redirects humans to.
func (s *Service) VerifyLanding(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString("<h1>Your email has been verified. You can return to the app.</h1>")
}

// ForgotPassword replaces the member's credentials with a temporary password
// and emails it together with a single-use, 24-hour reset link.
func (s *Service) ForgotPassword(c *fiber.Ctx) error {

	req := new(schemas.ForgotPasswordSchema)

	if err := c.BodyParser(req); err != nil {
		return errors.HandleBadJsonError(c)
	}
	if err := validate.Struct(req); err != nil {
		return errors.HandleValidatorError(c, err)
	}

	var member struct {
		MemberID     int `db:"memberid"`
		Verification int `db:"verification"`
	}
	err := s.DB.GetContext(c.Context(), &member, `
		SELECT memberid, verification FROM members WHERE email = $1`,
		req.Email,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return errors.HandleNotFoundError(c, "User not found")
		}
		return errors.HandleSQLError(c, "member select", err)
	}
	if member.Verification == 0 {
		return errors.HandleUnauthorizedError(c, "Please verify your email address")
	}

	tempPassword, err := helpers.TempPassword(12)
	if err != nil {
		return errors.HandleInternalError(c, "temp password", err)
	}
	salt, err := helpers.GenerateSalt(32)
	if err != nil {
		return errors.HandleInternalError(c, "salt generation", err)
	}

	_, err = s.DB.ExecContext(c.Context(), `
		UPDATE credentials SET saltedhash = $1, salt = $2 WHERE memberid = $3`,
		helpers.GenerateHash(tempPassword, salt), salt, member.MemberID,
	)
	if err != nil {
		return errors.HandleSQLError(c, "credentials update", err)
	}

	token, err := helpers.SignToken(s.Config.TokenSecret,
		helpers.TokenClaims{MemberID: member.MemberID, Email: req.Email},
		helpers.LinkTokenDuration)
	if err != nil {
		return errors.HandleInternalError(c, "reset token", err)
	}

	// Single-use marker: the reset route consumes it.
	err = s.Redis.Set(c.Context(), resetKey(member.MemberID), token, helpers.LinkTokenDuration).Err()
	if err != nil {
		return errors.HandleInternalError(c, "reset marker", err)
	}

	link := s.Config.BaseURL + "/passwordreset/reset/" + token
	s.Mail.SendAsync(req.Email, "Chatterbug: Here is your temporary password",
		"<p>Your temporary password is: <b>"+tempPassword+"</b></p>"+
			"<p>Please follow this link within 24 hours to set a new one: <a href=\""+link+"\">"+link+"</a></p>")

	return c.JSON(schemas.MessageResponse{
		Message: "You should get a temporary password in your email.",
	})
}

// ResetPassword consumes a reset link and replaces the credential row
// wholesale with a new salt and hash.
func (s *Service) ResetPassword(c *fiber.Ctx) error {

	tokenString := c.Params("token")
	claims, err := helpers.ParseToken(s.Config.TokenSecret, tokenString)
	if err != nil {
		return errors.HandleForbiddenError(c, "Token is not valid")
	}

	stored, err := s.Redis.Get(c.Context(), resetKey(claims.MemberID)).Result()
	if err == redis.Nil || (err == nil && stored != tokenString) {
		return errors.HandleBadRequestError(c, "Reset link expired or already used")
	}
	if err != nil {
		return errors.HandleInternalError(c, "reset marker", err)
	}

	req := new(schemas.ResetPasswordSchema)
	if err := c.BodyParser(req); err != nil {
		return errors.HandleBadJsonError(c)
	}
	if err := validate.Struct(req); err != nil {
		return errors.HandleValidatorError(c, err)
	}
	if !helpers.IsValidPassword(req.Password) {
		return errors.HandleBadRequestError(c, "Password does not meet requirements")
	}

	salt, err := helpers.GenerateSalt(32)
	if err != nil {
		return errors.HandleInternalError(c, "salt generation", err)
	}

	_, err = s.DB.ExecContext(c.Context(), `
		UPDATE credentials SET saltedhash = $1, salt = $2 WHERE memberid = $3`,
		helpers.GenerateHash(req.Password, salt), salt, claims.MemberID,
	)
	if err != nil {
		return errors.HandleSQLError(c, "credentials update", err)
	}

	s.Redis.Del(c.Context(), resetKey(claims.MemberID))

	s.Mail.SendAsync(claims.Email, "Chatterbug: Password successfully updated",
		"<p>Your password has been changed. If this was not you, reset it again immediately.</p>")

	return helpers.OKResponse(c)
}
