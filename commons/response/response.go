package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"solarhub/commons/logger"
)

type ErrorBody struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// HTTPError carries a status code alongside a client-safe message.
type HTTPError struct {
	Status  int
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error { return e.Err }

func NewHTTPError(status int, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Message: message, Err: err}
}

func NotFound(message string) *HTTPError   { return NewHTTPError(http.StatusNotFound, message, nil) }
func BadRequest(message string) *HTTPError { return NewHTTPError(http.StatusBadRequest, message, nil) }

func JSON(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}

func Error(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: message})
}

// ValidationError reports binding failures field by field.
func ValidationError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = fe.Tag()
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{Error: "Validation failed", Details: details})
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{Error: "Invalid request body", Details: err.Error()})
}

// Fail maps err to a status code. Known database errors get clearer messages, anything
// unrecognised is logged and reported as a 500.
func Fail(c *gin.Context, err error, fallback string) {
	status, message := Classify(err, fallback)
	log := logger.FromContext(c.Request.Context())
	if status >= http.StatusInternalServerError {
		log.Error(fallback, zap.Error(err))
	} else {
		log.Debug("request rejected", zap.Int("status", status), zap.Error(err))
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorBody{Error: message})
}

func Classify(err error, fallback string) (int, string) {
	var httpErr *HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Status, httpErr.Message
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, "Record not found"
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return http.StatusConflict, "Record already exists"
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return http.StatusBadRequest, "Related record not found"
	}
	return http.StatusInternalServerError, fallback
}
