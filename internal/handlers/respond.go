package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		log.Printf("[%s] panic recovered: %v", route, r)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"errors": gin.H{"message": []string{"internal server error"}},
		})
	}
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), 5*time.Second)
}

// respondMessage emits the non-field error envelope, e.g.
// {"errors":{"message":["contact not found"]}}.
func respondMessage(c *gin.Context, status int, route, message string) {
	log.Printf("[%s] returning error %d: %s", route, status, message)
	c.AbortWithStatusJSON(status, gin.H{
		"errors": gin.H{"message": []string{message}},
	})
}

// respondFieldErrors emits the validation envelope: a map from snake_case
// field name to a list of messages.
func respondFieldErrors(c *gin.Context, fields map[string][]string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"errors": fields})
}

func respondServerError(c *gin.Context, route string, err error) {
	log.Printf("[%s] internal error: %v", route, err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"errors": gin.H{"message": []string{"internal server error"}},
	})
}

// respondValidationError translates binding failures into the field-keyed
// envelope. Non-validator errors (malformed JSON, wrong types) become a
// generic message.
func respondValidationError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make(map[string][]string, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := snakeCase(fieldError.Field())
			fields[field] = append(fields[field], validationMessage(fieldError, field))
		}
		respondFieldErrors(c, fields)
		return
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"errors": gin.H{"message": []string{"invalid request body"}},
	})
}

func validationMessage(fieldError validator.FieldError, field string) string {
	words := strings.ReplaceAll(field, "_", " ")
	switch fieldError.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", words)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", words)
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", words, fieldError.Param())
	default:
		return fmt.Sprintf("The %s field is invalid.", words)
	}
}

func snakeCase(field string) string {
	var b strings.Builder
	for i, r := range field {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
