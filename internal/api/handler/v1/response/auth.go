package response

import "github.com/Toms422/trial-master-pro/internal/domain"

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}
