package request

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/Toms422/trial-master-pro/internal/domain"
)

type CreateUserRequest struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	FullName string   `json:"full_name"`
	Phone    string   `json:"phone"`
	Roles    []string `json:"roles"`
}

func (req *CreateUserRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required, validation.Length(8, 0)),
		validation.Field(&req.FullName, validation.Required),
		validation.Field(&req.Roles, validation.By(validRoles)),
	)
}

type UpdateUserRequest struct {
	FullName string   `json:"full_name"`
	Phone    string   `json:"phone"`
	Roles    []string `json:"roles"`
}

func (req *UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.FullName, validation.Required),
		validation.Field(&req.Roles, validation.By(validRoles)),
	)
}

func validRoles(value interface{}) error {
	roles, ok := value.([]string)
	if !ok {
		return fmt.Errorf("roles must be a list")
	}

	for _, role := range roles {
		switch role {
		case domain.RoleAdmin, domain.RoleOperator, domain.RoleQAViewer:
		default:
			return fmt.Errorf("unknown role %q", role)
		}
	}

	return nil
}
