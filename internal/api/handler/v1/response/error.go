package response

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation"
	"go.uber.org/zap"
)

type Err struct {
	StatusCode int               `json:"-"`
	Msg        string            `json:"error"`
	Fields     map[string]string `json:"fields,omitempty"`
}

func (e *Err) Error() string {
	return e.Msg
}

func RenderErr(ctx *gin.Context, err *Err) {
	ctx.JSON(err.StatusCode, err)
}

func ErrBadRequest(err error) *Err {
	return &Err{
		StatusCode: http.StatusBadRequest,
		Msg:        err.Error(),
	}
}

// ErrValidation keeps ozzo's per-field messages so forms can surface errors
// inline at the offending input.
func ErrValidation(err error) *Err {
	respErr := &Err{
		StatusCode: http.StatusBadRequest,
		Msg:        "validation failed",
	}

	var fieldErrs validation.Errors
	if ok := AsValidationErrors(err, &fieldErrs); ok {
		respErr.Fields = make(map[string]string, len(fieldErrs))
		for field, fieldErr := range fieldErrs {
			respErr.Fields[field] = fieldErr.Error()
		}
	} else {
		respErr.Msg = err.Error()
	}

	return respErr
}

func AsValidationErrors(err error, target *validation.Errors) bool {
	fieldErrs, ok := err.(validation.Errors)
	if !ok {
		return false
	}

	*target = fieldErrs
	return true
}

func ErrNotFound(resource, by string, value any) *Err {
	return &Err{
		StatusCode: http.StatusNotFound,
		Msg:        fmt.Sprintf("%v not found by %v (%v)", resource, by, value),
	}
}

func ErrWrongCredentials(err error) *Err {
	return &Err{
		StatusCode: http.StatusUnauthorized,
		Msg:        err.Error(),
	}
}

func ErrConflict(err error) *Err {
	return &Err{
		StatusCode: http.StatusConflict,
		Msg:        err.Error(),
	}
}

func ErrInternalServerError(err error) *Err {
	zap.L().Error("internal server error", zap.Error(err))

	return &Err{
		StatusCode: http.StatusInternalServerError,
		Msg:        "something went wrong, please try again",
	}
}
