package jwttoken

import (
	"tanda/pkg/platform/middleware/auth"
)

// ValidatorAdapter adapts JWTService to the auth middleware's TokenValidator.
type ValidatorAdapter struct {
	service *JWTService
}

func NewValidatorAdapter(service *JWTService) *ValidatorAdapter {
	return &ValidatorAdapter{service: service}
}

func (a *ValidatorAdapter) ValidateToken(tokenString string) (*auth.Claims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &auth.Claims{AccountID: claims.AccountID}, nil
}
