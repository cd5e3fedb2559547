package errors

import (
	"io"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// InternalLogger records errors that should never happen in normal operation.
var InternalLogger = log.New(io.Discard, "", log.LstdFlags)

// MonitorLogger records expected client errors and notifier failures.
var MonitorLogger = log.New(io.Discard, "", log.LstdFlags)

// InitLoggers points the package loggers at their destinations. Called once
// from main before the server accepts requests.
func InitLoggers(internal io.Writer, monitor io.Writer) {
	InternalLogger = log.New(internal, "", log.LstdFlags)
	MonitorLogger = log.New(monitor, "", log.LstdFlags)
}

// ErrorResponse is the body of every user-visible failure.
type ErrorResponse struct {
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// HandleFatalError aborts startup on unrecoverable initialization errors.
func HandleFatalError(err error) {
	if err != nil {
		log.Fatalln(err)
	}
}

// HandleBadRequestError responds 400 for malformed or conflicting input.
func HandleBadRequestError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Message: message,
	})
}

// HandleNotFoundError responds 404 when a referenced entity is absent.
func HandleNotFoundError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
		Message: message,
	})
}

// HandleUnauthorizedError responds 401 when no credential was supplied.
func HandleUnauthorizedError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Message: message,
	})
}

// HandleForbiddenError responds 403 when a supplied credential is invalid.
func HandleForbiddenError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
		Message: message,
	})
}

// HandleInternalError responds 500 for failures that should never happen in
// normal operation and logs them.
func HandleInternalError(c *fiber.Ctx, problem string, err error) error {
	InternalLogger.Println("IP: " + c.IP() + "; Problem: " + problem + "; Error: " + err.Error())
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Message: "internal error",
	})
}

// HandleSQLError responds 400 with the storage failure detail and logs it.
// The pipeline never continues past a failed statement.
func HandleSQLError(c *fiber.Ctx, problem string, err error) error {
	InternalLogger.Println("IP: " + c.IP() + "; Problem: " + problem + "; Error: " + err.Error())
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Message: "SQL Error",
		Detail:  err.Error(),
	})
}

// HandleUpstreamError responds 400 for third-party API failures.
func HandleUpstreamError(c *fiber.Ctx, message string, err error) error {
	MonitorLogger.Println("Upstream; Problem: " + message + "; Error: " + err.Error())
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Message: message,
		Detail:  err.Error(),
	})
}

// HandleValidatorError responds 400 naming the first failing field.
func HandleValidatorError(c *fiber.Ctx, err error) error {
	validatorErr := err.(validator.ValidationErrors)[0]
	return HandleBadRequestError(c, validatorErr.StructField()+" "+validatorErr.Tag())
}

// HandleBadJsonError responds 400 for unparseable request bodies.
func HandleBadJsonError(c *fiber.Ctx) error {
	return HandleBadRequestError(c, "malformed JSON in parameters")
}
