package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Every response carries the uniform {status, message, ...} envelope.

func respond(c *gin.Context, code int, message string, data any) {
	c.JSON(code, gin.H{
		"status":  true,
		"message": message,
		"data":    data,
	})
}

func respondMessage(c *gin.Context, code int, status bool, message string) {
	c.JSON(code, gin.H{
		"status":  status,
		"message": message,
	})
}

func respondError(c *gin.Context, code int, message string) {
	respondMessage(c, code, false, message)
}

// bindJSON binds the body into dst. On failure it writes the appropriate
// error response (422 with per-field messages for validation failures, 400
// for unreadable bodies) and returns false.
func (h *Handler) bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	if h.log != nil {
		h.log.Infow("request_body_rejected", "path", c.FullPath(), "err", err)
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		h.validationFailed(c, fieldMessages(verrs))
		return false
	}
	respondError(c, http.StatusBadRequest, "Invalid request body")
	return false
}

// validationFailed writes the 422 envelope with per-field messages.
func (h *Handler) validationFailed(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"status":  false,
		"message": "The given data was invalid",
		"errors":  fields,
	})
}

// fieldMessages maps validator failures to the API's per-field messages.
func fieldMessages(verrs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() + "." + fe.Tag() {
	case "title.required":
		return "A title is required"
	case "title.max":
		return "The title must not exceed 255 characters"
	case "email.required":
		return "An email is required"
	case "email.email":
		return "The email must be a valid email address"
	case "password.required":
		return "A password is required"
	case "password.min":
		return fmt.Sprintf("The password must be at least %s characters", fe.Param())
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required", fe.Field())
	case "email":
		return fmt.Sprintf("The %s must be a valid email address", fe.Field())
	case "max":
		return fmt.Sprintf("The %s must not exceed %s characters", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("The %s must be at least %s characters", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("The %s field is invalid", fe.Field())
}
