package auth

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	errors "github.com/frahmantamala/maintenance-management/internal"
	"github.com/frahmantamala/maintenance-management/internal/core/database"
	userDatamodel "github.com/frahmantamala/maintenance-management/internal/core/datamodel/user"
)

// RepositoryAPI is the credential store. Lookups return nil, nil when the row
// does not exist.
type RepositoryAPI interface {
	GetUserByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	GetUserByUsername(ctx context.Context, username string) (*userDatamodel.User, error)
	GetUserByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	CreateUser(ctx context.Context, user *userDatamodel.User) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	GetRoleByName(ctx context.Context, name string) (*userDatamodel.Role, error)
	GetUserRoles(ctx context.Context, userID int64) ([]string, error)
	GetPermissionsForRoles(ctx context.Context, roles []string) ([]string, error)
	HasRole(ctx context.Context, userID, roleID int64) (bool, error)
	AddUserRole(ctx context.Context, assignment *userDatamodel.UserRole) error
	RemoveUserRole(ctx context.Context, userID, roleID int64) error
}

type Options struct {
	BCryptCost    int
	ResetTokenTTL time.Duration
}

type Service struct {
	repo       RepositoryAPI
	tokens     TokenGeneratorAPI
	store      TokenStore
	transactor database.Transactor
	logger     *slog.Logger
	opts       Options
	now        func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewService(repo RepositoryAPI, tokens TokenGeneratorAPI, store TokenStore, transactor database.Transactor, opts Options, logger *slog.Logger) *Service {
	if opts.BCryptCost == 0 {
		opts.BCryptCost = 12
	}
	if opts.ResetTokenTTL == 0 {
		opts.ResetTokenTTL = time.Hour
	}
	return &Service{
		repo:       repo,
		tokens:     tokens,
		store:      store,
		transactor: transactor,
		logger:     logger,
		opts:       opts,
		now:        time.Now,
	}
}

// Authenticate looks the principal up by username, then by email. Every
// failure returns ErrInvalidCredentials so callers cannot tell a missing
// account from a wrong password.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (*AuthResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	identifier := strings.TrimSpace(dto.Username)
	row, err := s.repo.GetUserByUsername(ctx, identifier)
	if err != nil {
		return nil, errors.NewInternalError("failed to load user", err)
	}
	if row == nil {
		row, err = s.repo.GetUserByEmail(ctx, identifier)
		if err != nil {
			return nil, errors.NewInternalError("failed to load user", err)
		}
	}

	if row == nil {
		// equalise timing with the found-user path
		_ = VerifyPassword(s.dummyPasswordHash(), dto.Password)
		s.logger.Info("login rejected", "reason", "unknown principal")
		return nil, errors.ErrInvalidCredentials
	}
	if err := VerifyPassword(row.PasswordHash, dto.Password); err != nil {
		s.logger.Info("login rejected", "reason", "password mismatch", "user_id", row.ID)
		return nil, errors.ErrInvalidCredentials
	}
	if !row.IsActive {
		s.logger.Info("login rejected", "reason", "inactive", "user_id", row.ID)
		return nil, errors.ErrInvalidCredentials
	}

	result, err := s.issue(ctx, row)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user logged in", "user_id", row.ID)
	return result, nil
}

// Register creates an account holding exactly one role, Operator unless
// another non-administrative role is requested.
func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*AuthResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	roleName := dto.RequestedRole()
	if roleName == RoleAdministrator {
		return nil, errors.NewValidationFieldError("role", "the Administrator role cannot be self-assigned", errors.ErrCodeInvalidEnum)
	}

	hash, err := HashPassword(dto.Password, s.opts.BCryptCost)
	if err != nil {
		return nil, errors.NewInternalError("failed to hash password", err)
	}

	row := &userDatamodel.User{
		Username:     strings.TrimSpace(dto.Username),
		Email:        strings.ToLower(strings.TrimSpace(dto.Email)),
		PasswordHash: hash,
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		IsActive:     true,
	}

	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		role, err := s.repo.GetRoleByName(ctx, roleName)
		if err != nil {
			return errors.NewInternalError("failed to load role", err)
		}
		if role == nil {
			return errors.NewValidationFieldError("role", "unknown role "+roleName, errors.ErrCodeInvalidEnum)
		}

		existing, err := s.repo.GetUserByUsername(ctx, row.Username)
		if err != nil {
			return errors.NewInternalError("failed to check username", err)
		}
		if existing != nil {
			return errors.ErrUsernameTaken
		}
		existing, err = s.repo.GetUserByEmail(ctx, row.Email)
		if err != nil {
			return errors.NewInternalError("failed to check email", err)
		}
		if existing != nil {
			return errors.ErrEmailTaken
		}

		if err := s.repo.CreateUser(ctx, row); err != nil {
			if database.IsUniqueViolation(err) {
				return errors.ErrUsernameTaken.WithMessage("Username or email already in use")
			}
			return errors.NewInternalError("failed to create user", err)
		}
		if err := s.repo.AddUserRole(ctx, &userDatamodel.UserRole{UserID: row.ID, RoleID: role.ID}); err != nil {
			return errors.NewInternalError("failed to assign role", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", row.ID, "role", roleName)
	return s.issue(ctx, row)
}

// RefreshTokens accepts an expired token for as long as its signature, issuer
// and audience hold and it has not been revoked. The new pair reflects the
// principal's current roles.
func (s *Service) RefreshTokens(ctx context.Context, dto RefreshTokenDTO) (*AuthResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	claims, err := s.tokens.ParseIgnoringExpiry(dto.Token)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNotRevoked(ctx, claims.ID); err != nil {
		return nil, err
	}

	row, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load user", err)
	}
	if row == nil || !row.IsActive {
		return nil, errors.ErrInvalidToken
	}

	return s.issue(ctx, row)
}

// ValidateAccessToken decodes a bearer token and rejects revoked ones.
func (s *Service) ValidateAccessToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNotRevoked(ctx, claims.ID); err != nil {
		return nil, err
	}
	return claims, nil
}

// RevokeToken denylists the token id. Expired tokens stay refreshable, so the
// entry never expires.
func (s *Service) RevokeToken(ctx context.Context, tokenString string) error {
	claims, err := s.tokens.ParseIgnoringExpiry(tokenString)
	if err != nil {
		return err
	}
	if err := s.store.Revoke(ctx, claims.ID); err != nil {
		return errors.NewInternalError("failed to revoke token", err)
	}
	s.logger.Info("token revoked", "user_id", claims.UserID, "jti", claims.ID)
	return nil
}

// LoadPrincipal builds the request principal from validated claims. Roles come
// from the token, permissions are resolved for those roles on every request.
func (s *Service) LoadPrincipal(ctx context.Context, claims *Claims) (*User, error) {
	row, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load user", err)
	}
	if row == nil || !row.IsActive {
		return nil, errors.ErrInvalidToken
	}

	permissions, err := s.repo.GetPermissionsForRoles(ctx, claims.Roles)
	if err != nil {
		return nil, errors.NewInternalError("failed to load permissions", err)
	}
	if permissions == nil {
		permissions = []string{}
	}

	return &User{
		ID:          row.ID,
		Username:    row.Username,
		Email:       row.Email,
		FirstName:   row.FirstName,
		LastName:    row.LastName,
		Roles:       claims.Roles,
		Permissions: permissions,
		TokenID:     claims.ID,
	}, nil
}

func (s *Service) ChangePassword(ctx context.Context, userID int64, dto ChangePasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	row, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return errors.NewInternalError("failed to load user", err)
	}
	if row == nil {
		return errors.ErrUserNotFound
	}
	if err := VerifyPassword(row.PasswordHash, dto.CurrentPassword); err != nil {
		return errors.NewValidationFieldError("currentPassword", "current password is incorrect", errors.ErrCodeInvalidCredentials)
	}

	hash, err := HashPassword(dto.NewPassword, s.opts.BCryptCost)
	if err != nil {
		return errors.NewInternalError("failed to hash password", err)
	}
	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		return errors.NewInternalError("failed to update password", err)
	}
	s.logger.Info("password changed", "user_id", userID)
	return nil
}

// IssueResetToken creates a single-use reset token for the account behind email.
func (s *Service) IssueResetToken(ctx context.Context, dto ResetPasswordTokenDTO) (*ResetTokenResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(dto.Email)))
	if err != nil {
		return nil, errors.NewInternalError("failed to load user", err)
	}
	if row == nil {
		return nil, errors.ErrUserNotFound
	}

	token, err := GenerateRandomToken()
	if err != nil {
		return nil, errors.NewInternalError("failed to generate reset token", err)
	}
	if err := s.store.SaveResetToken(ctx, token, row.ID, s.opts.ResetTokenTTL); err != nil {
		return nil, errors.NewInternalError("failed to store reset token", err)
	}

	s.logger.Info("password reset token issued", "user_id", row.ID)
	return &ResetTokenResult{Token: token, ExpiresAt: s.now().Add(s.opts.ResetTokenTTL).UTC()}, nil
}

func (s *Service) ResetPassword(ctx context.Context, dto ResetPasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	userID, ok, err := s.store.ConsumeResetToken(ctx, dto.Token)
	if err != nil {
		return errors.NewInternalError("failed to read reset token", err)
	}
	if !ok {
		return errors.ErrInvalidResetToken
	}

	row, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return errors.NewInternalError("failed to load user", err)
	}
	if row == nil || !strings.EqualFold(row.Email, strings.TrimSpace(dto.Email)) {
		return errors.ErrInvalidResetToken
	}

	hash, err := HashPassword(dto.NewPassword, s.opts.BCryptCost)
	if err != nil {
		return errors.NewInternalError("failed to hash password", err)
	}
	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		return errors.NewInternalError("failed to update password", err)
	}
	s.logger.Info("password reset", "user_id", userID)
	return nil
}

func (s *Service) GetCurrentUser(ctx context.Context, principal *User) (*User, error) {
	roles, err := s.repo.GetUserRoles(ctx, principal.ID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load roles", err)
	}
	current := *principal
	if roles == nil {
		roles = []string{}
	}
	current.Roles = roles
	return &current, nil
}

// AssignRole grants roleName to a user. Each failure keeps its own error code.
func (s *Service) AssignRole(ctx context.Context, grantedBy int64, dto RoleAssignmentDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	return s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		userID, role, err := s.resolveAssignment(ctx, dto)
		if err != nil {
			return err
		}

		assigned, err := s.repo.HasRole(ctx, userID, role.ID)
		if err != nil {
			return errors.NewInternalError("failed to check role membership", err)
		}
		if assigned {
			return errors.ErrRoleAssigned
		}

		if err := s.repo.AddUserRole(ctx, &userDatamodel.UserRole{UserID: userID, RoleID: role.ID, GrantedBy: &grantedBy}); err != nil {
			if database.IsUniqueViolation(err) {
				return errors.ErrRoleAssigned
			}
			return errors.NewInternalError("failed to assign role", err)
		}
		s.logger.Info("role assigned", "user_id", userID, "role", role.Name, "granted_by", grantedBy)
		return nil
	})
}

func (s *Service) RemoveRole(ctx context.Context, dto RoleAssignmentDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	return s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		userID, role, err := s.resolveAssignment(ctx, dto)
		if err != nil {
			return err
		}

		assigned, err := s.repo.HasRole(ctx, userID, role.ID)
		if err != nil {
			return errors.NewInternalError("failed to check role membership", err)
		}
		if !assigned {
			return errors.ErrRoleNotAssigned
		}

		if err := s.repo.RemoveUserRole(ctx, userID, role.ID); err != nil {
			return errors.NewInternalError("failed to remove role", err)
		}
		s.logger.Info("role removed", "user_id", userID, "role", role.Name)
		return nil
	})
}

func (s *Service) resolveAssignment(ctx context.Context, dto RoleAssignmentDTO) (int64, *userDatamodel.Role, error) {
	row, err := s.repo.GetUserByID(ctx, dto.UserID)
	if err != nil {
		return 0, nil, errors.NewInternalError("failed to load user", err)
	}
	if row == nil {
		return 0, nil, errors.ErrUserNotFound
	}

	role, err := s.repo.GetRoleByName(ctx, strings.TrimSpace(dto.RoleName))
	if err != nil {
		return 0, nil, errors.NewInternalError("failed to load role", err)
	}
	if role == nil {
		return 0, nil, errors.ErrRoleNotFound
	}
	return row.ID, role, nil
}

func (s *Service) HashPassword(password string) (string, error) {
	return HashPassword(password, s.opts.BCryptCost)
}

func (s *Service) issue(ctx context.Context, row *userDatamodel.User) (*AuthResult, error) {
	roles, err := s.repo.GetUserRoles(ctx, row.ID)
	if err != nil {
		return nil, errors.NewInternalError("failed to load roles", err)
	}

	principal := &User{ID: row.ID, Username: row.Username, Email: row.Email, Roles: roles}
	token, claims, err := s.tokens.GenerateAccessToken(principal)
	if err != nil {
		return nil, errors.NewInternalError("failed to sign token", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, errors.NewInternalError("failed to generate refresh token", err)
	}

	return &AuthResult{
		Token:        token,
		RefreshToken: refresh,
		Expiry:       claims.ExpiresAt.Time.UTC(),
		User:         newUserInfo(row, roles),
	}, nil
}

func (s *Service) ensureNotRevoked(ctx context.Context, tokenID string) error {
	revoked, err := s.store.IsRevoked(ctx, tokenID)
	if err != nil {
		return errors.NewInternalError("failed to check token revocation", err)
	}
	if revoked {
		return errors.ErrTokenRevoked
	}
	return nil
}

func (s *Service) dummyPasswordHash() string {
	s.dummyOnce.Do(func() {
		hash, err := HashPassword("not-a-real-password", s.opts.BCryptCost)
		if err == nil {
			s.dummyHash = hash
		}
	})
	return s.dummyHash
}
