//go:generate go run go.uber.org/mock/mockgen -source=auth_service.go -destination=../mocks/mock_auth_service.go -package=mocks
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"workspace-chat/auth"
	"workspace-chat/domain"
	"workspace-chat/errors"
	"workspace-chat/repositories"
)

type IAuthService interface {
	Register(ctx context.Context, email, name, password string) (domain.Principal, string, error)
	Login(ctx context.Context, email, password string) (domain.Principal, string, error)
	Logout(ctx context.Context, token string) error
}

type AuthService struct {
	users      repositories.IUserRepository
	workspaces repositories.IWorkspaceRepository
	members    repositories.IMemberRepository
	sessions   ISessionService
	log        *slog.Logger
}

func NewAuthService(
	users repositories.IUserRepository,
	workspaces repositories.IWorkspaceRepository,
	members repositories.IMemberRepository,
	sessions ISessionService,
	log *slog.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		workspaces: workspaces,
		members:    members,
		sessions:   sessions,
		log:        log,
	}
}

// Register creates the account, a personal workspace with the new user as
// owner, and a live session. Validation runs before the expensive hash.
func (s *AuthService) Register(ctx context.Context, email, name, password string) (domain.Principal, string, error) {
	req := auth.RegisterRequest{Email: email, Name: name, Password: password}
	if err := auth.ValidateRegister(req); err != nil {
		return domain.Principal{}, "", fmt.Errorf("%w: %v", errors.ErrInvalidPassword, err)
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return domain.Principal{}, "", fmt.Errorf("hashing failed: %w", err)
	}

	user, err := s.users.Create(email, name, hashedPassword)
	if err != nil {
		return domain.Principal{}, "", err // Propagates ErrUserAlreadyExists
	}

	workspace := domain.NewWorkspace("My Workspace",
		fmt.Sprintf("Workspace created for %s", user.Name), user.ID)
	if err := s.workspaces.Store(workspace); err != nil {
		return domain.Principal{}, "", err
	}
	err = s.members.Add(domain.Member{
		UserID:      user.ID,
		WorkspaceID: workspace.ID,
		Role:        domain.RoleOwner,
		JoinedAt:    time.Now().UTC(),
	})
	if err != nil {
		return domain.Principal{}, "", err
	}

	principal := domain.Principal{ID: user.ID, Email: user.Email, Name: user.Name}
	token, err := s.sessions.Issue(ctx, principal)
	if err != nil {
		return domain.Principal{}, "", err
	}
	return principal, token, nil
}

// Login verifies the credentials and opens a fresh session.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.Principal, string, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		// Generic error to prevent user enumeration.
		return domain.Principal{}, "", errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, user.PasswordHash)
	if err != nil || !match {
		return domain.Principal{}, "", errors.ErrInvalidCredentials
	}

	principal := domain.Principal{ID: user.ID, Email: user.Email, Name: user.Name}
	token, err := s.sessions.Issue(ctx, principal)
	if err != nil {
		return domain.Principal{}, "", err
	}
	return principal, token, nil
}

// Logout clears the session; it never fails on an already-cleared token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Clear(ctx, token)
}
