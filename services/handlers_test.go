package services_test

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"log"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"chatterbug_server/config"
	"chatterbug_server/helpers"
	"chatterbug_server/mail"
	"chatterbug_server/push"
	"chatterbug_server/routes"
	"chatterbug_server/schemas"
	"chatterbug_server/services"
	"chatterbug_server/weather"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

const (
	testSecret   = "test-secret"
	testPassword = "Str0ng#Pass1"
)

// newTestApp mounts the full route table over a mock-backed store. The mock
// enforces statement order and arguments, so a test asserts exactly which SQL
// a pipeline ran.
func newTestApp(t *testing.T) (*fiber.App, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { mockDB.Close() })

	cfg := &config.Config{
		Port:        "5000",
		BaseURL:     "http://localhost:5000",
		TokenSecret: testSecret,
		EmailFrom:   "noreply@chatterbug.app",
		SMTP:        config.SMTPConfig{Host: "localhost", Port: "2525"},
	}
	logger := log.New(io.Discard, "", 0)

	s := services.New(
		sqlx.NewDb(mockDB, "sqlmock"),
		nil,
		cfg,
		mail.New(cfg.EmailFrom, cfg.SMTP, logger),
		push.New("test-key"),
		weather.New("test-key", nil),
	)

	app := fiber.New()
	routes.SetRoutes(app, s)
	return app, mock
}

func bearer(t *testing.T, memberID int, email string) string {
	t.Helper()
	token, err := helpers.SignToken(testSecret, helpers.TokenClaims{MemberID: memberID, Email: email}, time.Hour)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}
	return "Bearer " + token
}

func doJSON(t *testing.T, app *fiber.App, method string, target string, body string, auth string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if auth != "" {
		req.Header.Set(fiber.HeaderAuthorization, auth)
	}
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return res
}

func decodeBody(t *testing.T, res *http.Response, out interface{}) {
	t.Helper()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		t.Fatalf("unmarshal %q: %v", body, err)
	}
}

func countRows(n int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(n)
}

type errorBody struct {
	Message string `json:"message"`
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app, mock := newTestApp(t)

	mock.ExpectQuery(`INSERT INTO members`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "members_email_key"})

	res := doJSON(t, app, "POST", "/register",
		`{"first":"Ada","last":"Lovelace","email":"ada@x.com","password":"`+testPassword+`"}`, "")
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", res.StatusCode)
	}
	var body errorBody
	decodeBody(t, res, &body)
	if body.Message != "Email exists" {
		t.Fatalf("message = %q, want Email exists", body.Message)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	app, mock := newTestApp(t)

	mock.ExpectQuery(`INSERT INTO members`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "members_username_key"})

	res := doJSON(t, app, "POST", "/register",
		`{"first":"Ada","last":"Lovelace","username":"ada","email":"ada@x.com","password":"`+testPassword+`"}`, "")
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", res.StatusCode)
	}
	var body errorBody
	decodeBody(t, res, &body)
	if body.Message != "Username exists" {
		t.Fatalf("message = %q, want Username exists", body.Message)
	}
}

func TestRequestFriendDuplicateBlocked(t *testing.T) {
	app, mock := newTestApp(t)

	// A contact row in either direction blocks a second request, so the
	// pipeline must stop after the existence checks without inserting.
	mock.ExpectQuery(`SELECT count\(\*\) FROM members`).
		WithArgs(2).
		WillReturnRows(countRows(1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM contacts`).
		WithArgs(1, 2).
		WillReturnRows(countRows(1))

	res := doJSON(t, app, "POST", "/friendsList/request", `{"memberid":2}`, bearer(t, 1, "ada@x.com"))
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", res.StatusCode)
	}
	var body errorBody
	decodeBody(t, res, &body)
	if body.Message != "already pending or friends" {
		t.Fatalf("message = %q, want already pending or friends", body.Message)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestVerifyFriendWritesBothDirections(t *testing.T) {
	app, mock := newTestApp(t)

	mock.ExpectExec(`UPDATE contacts SET verified = 1`).
		WithArgs(2, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO contacts`).
		WithArgs(1, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	res := doJSON(t, app, "PUT", "/friendsList/verify", `{"memberid":2}`, bearer(t, 1, "ada@x.com"))
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", res.StatusCode)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("accept did not write both directed rows: %v", err)
	}
}

func TestVerifyFriendNoPendingRequest(t *testing.T) {
	app, mock := newTestApp(t)

	mock.ExpectExec(`UPDATE contacts SET verified = 1`).
		WithArgs(2, 1).
		WillReturnResult(sqlmock.NewResult(0, 0))

	res := doJSON(t, app, "PUT", "/friendsList/verify", `{"memberid":2}`, bearer(t, 1, "ada@x.com"))
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404", res.StatusCode)
	}
	var body errorBody
	decodeBody(t, res, &body)
	if body.Message != "no pending friend request" {
		t.Fatalf("message = %q, want no pending friend request", body.Message)
	}
}

func TestMessageListKeyset(t *testing.T) {
	app, mock := newTestApp(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM chats`).
		WithArgs(7).
		WillReturnRows(countRows(1))
	now := time.Now()
	mock.ExpectQuery(`messages\.primarykey < \$2`).
		WithArgs(7, 120, 15).
		WillReturnRows(sqlmock.NewRows([]string{"messageid", "email", "message", "timestamp"}).
			AddRow(119, "ada@x.com", "newer", now).
			AddRow(118, "ada@x.com", "older", now.Add(-time.Minute)))

	res := doJSON(t, app, "GET", "/messages/7/120", "", bearer(t, 1, "ada@x.com"))
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", res.StatusCode)
	}

	var out schemas.MessageListResponse
	decodeBody(t, res, &out)
	if out.ChatID != 7 {
		t.Errorf("chatId = %d, want 7", out.ChatID)
	}
	if out.RowCount != 2 {
		t.Errorf("rowCount = %d, want 2", out.RowCount)
	}
	if out.Rows[0].MessageID != 119 || out.Rows[1].MessageID != 118 {
		t.Errorf("rows out of order: %d, %d", out.Rows[0].MessageID, out.Rows[1].MessageID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestMessageListDefaultCursor(t *testing.T) {
	app, mock := newTestApp(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM chats`).
		WithArgs(7).
		WillReturnRows(countRows(1))
	mock.ExpectQuery(`messages\.primarykey < \$2`).
		WithArgs(7, math.MaxInt32, 15).
		WillReturnRows(sqlmock.NewRows([]string{"messageid", "email", "message", "timestamp"}))

	res := doJSON(t, app, "GET", "/messages/7", "", bearer(t, 1, "ada@x.com"))
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", res.StatusCode)
	}

	var out schemas.MessageListResponse
	decodeBody(t, res, &out)
	if out.RowCount != 0 {
		t.Errorf("rowCount = %d, want 0", out.RowCount)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

// TestRegisterThroughMessageListFlow walks one member through the primary
// journey: register, sign in with the issued credentials, create a chat, join
// it (which seeds the blank preview message), post, then list.
func TestRegisterThroughMessageListFlow(t *testing.T) {
	app, mock := newTestApp(t)

	// Register. Username defaults to the email address.
	mock.ExpectQuery(`INSERT INTO members`).
		WithArgs("Ada", "Lovelace", "ada@x.com", "ada@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"memberid"}).AddRow(1))
	mock.ExpectExec(`INSERT INTO credentials`).
		WithArgs(1, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	res := doJSON(t, app, "POST", "/register",
		`{"first":"Ada","last":"Lovelace","email":"ada@x.com","password":"`+testPassword+`"}`, "")
	if res.StatusCode != fiber.StatusCreated {
		t.Fatalf("register status = %d, want 201", res.StatusCode)
	}

	// Sign in with Basic credentials against the stored salt and hash.
	salt := "00ff00ff"
	mock.ExpectQuery(`SELECT saltedhash, salt, credentials\.memberid`).
		WithArgs("ada@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"saltedhash", "salt", "memberid"}).
			AddRow(helpers.GenerateHash(testPassword, salt), salt, 1))

	req := httptest.NewRequest("GET", "/signin", nil)
	req.Header.Set(fiber.HeaderAuthorization,
		"Basic "+base64.StdEncoding.EncodeToString([]byte("ada@x.com:"+testPassword)))
	signinRes, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if signinRes.StatusCode != fiber.StatusOK {
		t.Fatalf("signin status = %d, want 200", signinRes.StatusCode)
	}
	var signin schemas.SignInResponse
	decodeBody(t, signinRes, &signin)
	if signin.Token == "" || signin.MemberID != 1 {
		t.Fatalf("signin response incomplete: %+v", signin)
	}
	auth := "Bearer " + signin.Token

	// Create a chat.
	mock.ExpectQuery(`INSERT INTO chats`).
		WithArgs("book club").
		WillReturnRows(sqlmock.NewRows([]string{"chatid"}).AddRow(7))

	res = doJSON(t, app, "POST", "/chats", `{"name":"book club"}`, auth)
	if res.StatusCode != fiber.StatusCreated {
		t.Fatalf("create chat status = %d, want 201", res.StatusCode)
	}
	var created schemas.ChatCreatedResponse
	decodeBody(t, res, &created)
	if created.ChatID != 7 {
		t.Fatalf("chatID = %d, want 7", created.ChatID)
	}

	// Join it. The pipeline seeds the activity preview with a blank message.
	mock.ExpectQuery(`SELECT name FROM chats`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("book club"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM members`).
		WithArgs(1).
		WillReturnRows(countRows(1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM chatmembers`).
		WithArgs(7, 1).
		WillReturnRows(countRows(0))
	mock.ExpectExec(`INSERT INTO chatmembers`).
		WithArgs(7, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT username FROM members`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"username"}).AddRow("ada@x.com"))
	mock.ExpectQuery(`INSERT INTO messages`).
		WithArgs(7, 1).
		WillReturnRows(sqlmock.NewRows([]string{"message", "timestamp"}).AddRow("", time.Now()))

	res = doJSON(t, app, "PUT", "/chats/7", "", auth)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("join chat status = %d, want 200", res.StatusCode)
	}

	// Post a message.
	mock.ExpectQuery(`SELECT count\(\*\) FROM chats`).
		WithArgs(7).
		WillReturnRows(countRows(1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM chatmembers`).
		WithArgs(7, 1).
		WillReturnRows(countRows(1))
	mock.ExpectQuery(`INSERT INTO messages`).
		WithArgs(7, 1, "hello").
		WillReturnRows(sqlmock.NewRows([]string{"messageid", "message", "timestamp"}).
			AddRow(42, "hello", time.Now()))

	res = doJSON(t, app, "POST", "/messages", `{"chatId":7,"message":"hello"}`, auth)
	if res.StatusCode != fiber.StatusCreated {
		t.Fatalf("post message status = %d, want 201", res.StatusCode)
	}

	// List: newest first, the posted message ahead of the blank seed.
	mock.ExpectQuery(`SELECT count\(\*\) FROM chats`).
		WithArgs(7).
		WillReturnRows(countRows(1))
	mock.ExpectQuery(`messages\.primarykey < \$2`).
		WithArgs(7, math.MaxInt32, 15).
		WillReturnRows(sqlmock.NewRows([]string{"messageid", "email", "message", "timestamp"}).
			AddRow(42, "ada@x.com", "hello", time.Now()).
			AddRow(41, "ada@x.com", "", time.Now().Add(-time.Minute)))

	res = doJSON(t, app, "GET", "/messages/7", "", auth)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("message list status = %d, want 200", res.StatusCode)
	}
	var list schemas.MessageListResponse
	decodeBody(t, res, &list)
	if list.RowCount != 2 {
		t.Fatalf("rowCount = %d, want 2", list.RowCount)
	}
	if list.Rows[0].MessageID != 42 || list.Rows[0].Message != "hello" {
		t.Fatalf("first row = %+v, want the posted message", list.Rows[0])
	}
	if list.Rows[1].Message != "" {
		t.Fatalf("second row = %+v, want the blank seed", list.Rows[1])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
