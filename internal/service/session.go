package service

import (
	"context"
	"net/mail"
	"strings"

	"limo/internal/domain"
	"limo/internal/repository"
)

// TokenIssuer signs access tokens for users.
type TokenIssuer interface {
	GenerateToken(user *domain.User) (string, error)
}

// SessionService issues admin API tokens for staff users.
type SessionService struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
}

// NewSessionService creates a new SessionService.
func NewSessionService(userRepo repository.UserRepository, tokens TokenIssuer) *SessionService {
	return &SessionService{userRepo: userRepo, tokens: tokens}
}

// IssueToken signs a token for the ADMIN or SUPER_ADMIN user with email.
// An ADMIN must belong to a tenant.
func (s *SessionService) IssueToken(ctx context.Context, email string) (string, *domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return "", nil, ErrInvalidEmail
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	switch user.Role {
	case domain.UserRoleSuperAdmin:
	case domain.UserRoleAdmin:
		if user.TenantID == "" {
			return "", nil, ErrNotStaff
		}
	default:
		return "", nil, ErrNotStaff
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}
