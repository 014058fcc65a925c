package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Leganyst/clinic-booking/internal/auth"
	"github.com/Leganyst/clinic-booking/internal/model"
	"github.com/Leganyst/clinic-booking/internal/repository"
)

// TokenIssuer выпускает access-токен для принципала.
type TokenIssuer interface {
	Issue(p auth.Principal) (string, time.Time, error)
}

// IdentityService — регистрация пациентов, вход и профили.
type IdentityService struct {
	store  *repository.Store
	tokens TokenIssuer
	log    *zap.Logger
}

func NewIdentityService(store *repository.Store, tokens TokenIssuer, log *zap.Logger) *IdentityService {
	return &IdentityService{store: store, tokens: tokens, log: orNop(log)}
}

type RegisterPatientInput struct {
	FullName string `validate:"required,max=255"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
	Gender   string `validate:"omitempty,max=32"`
}

// RegisterPatient создаёт учётку пациента.
func (s *IdentityService) RegisterPatient(ctx context.Context, in RegisterPatientInput) (*model.User, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	var u *model.User
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		u, err = createUser(ctx, tx, in.Email, in.Password, in.FullName, in.Gender, model.RoleCodePatient)
		return err
	})
	if err != nil {
		return nil, storageError("register patient", err)
	}

	s.log.Info("identity.patient_registered", zap.String("user_id", u.ID.String()))
	return u, nil
}

// createUser заводит пользователя с ролью. Вызывается внутри транзакции.
func createUser(ctx context.Context, tx *repository.Store, email, password, fullName, gender, role string) (*model.User, error) {
	if _, err := tx.Users.FindByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("email %s: %w", repository.NormalizeEmail(email), ErrAlreadyExists)
	} else if !isNotFound(err) {
		return nil, storageError("find user by email", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		Email:        email,
		FullName:     fullName,
		Gender:       gender,
		PasswordHash: hash,
	}
	if err := tx.Users.Create(ctx, u); err != nil {
		return nil, storageError("create user", err)
	}
	if err := tx.Users.SetRole(ctx, u.ID, role); err != nil {
		return nil, storageError("set role", err)
	}
	return u, nil
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Principal auth.Principal
	User      *model.User
}

// Login проверяет пароль, определяет роль и выпускает токен.
// Неизвестный e-mail и неверный пароль неразличимы для клиента.
func (s *IdentityService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.store.Users.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, storageError("find user by email", err)
	}
	if !auth.VerifyPassword(u.PasswordHash, password) {
		s.log.Info("identity.login_rejected", zap.String("user_id", u.ID.String()))
		return nil, ErrInvalidCredentials
	}

	p, err := s.resolvePrincipal(ctx, u)
	if err != nil {
		return nil, err
	}

	token, exp, err := s.tokens.Issue(*p)
	if err != nil {
		return nil, err
	}

	s.log.Info("identity.login", zap.String("user_id", u.ID.String()), zap.String("role", string(p.Role)))
	return &LoginResult{Token: token, ExpiresAt: exp, Principal: *p, User: u}, nil
}

func (s *IdentityService) resolvePrincipal(ctx context.Context, u *model.User) (*auth.Principal, error) {
	code, err := s.store.Users.GetRole(ctx, u.ID)
	if err != nil {
		return nil, storageError("get role", err)
	}
	role, err := auth.ParseRole(code)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", u.ID, err)
	}

	p := &auth.Principal{UserID: u.ID, ProfileID: u.ID, Email: u.Email, Role: role}
	if role == auth.RoleDoctor {
		d, err := s.store.Doctors.GetByUserID(ctx, u.ID)
		if err != nil {
			return nil, storageError("find doctor profile", err)
		}
		p.ProfileID = d.ID
	}
	return p, nil
}

// EnsureAdmin создаёт администратора, если учётки с таким e-mail ещё нет.
// Возвращает true, если учётка была создана.
func (s *IdentityService) EnsureAdmin(ctx context.Context, email, password, fullName string) (bool, error) {
	if email == "" || password == "" {
		return false, fmt.Errorf("%w: admin email and password are required", ErrInvalidArgument)
	}

	created := false
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		_, err := tx.Users.FindByEmail(ctx, email)
		if err == nil {
			return nil
		}
		if !isNotFound(err) {
			return storageError("find admin", err)
		}
		if _, err := createUser(ctx, tx, email, password, fullName, "", model.RoleCodeAdmin); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return false, storageError("ensure admin", err)
	}

	if created {
		s.log.Info("identity.admin_created", zap.String("email", repository.NormalizeEmail(email)))
	} else {
		s.log.Debug("identity.admin_exists", zap.String("email", repository.NormalizeEmail(email)))
	}
	return created, nil
}

// PatientProfile возвращает пациента. Пользователи с другими ролями не находятся.
func (s *IdentityService) PatientProfile(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, err := s.store.Users.GetByID(ctx, id)
	if err != nil {
		return nil, storageError("get patient", err)
	}
	code, err := s.store.Users.GetRole(ctx, id)
	if err != nil && !isNotFound(err) {
		return nil, storageError("get role", err)
	}
	if code != model.RoleCodePatient {
		return nil, fmt.Errorf("patient %s: %w", id, ErrNotFound)
	}
	return u, nil
}

type UpdateProfileInput struct {
	FullName string `validate:"required,max=255"`
	Gender   string `validate:"omitempty,max=32"`
}

// UpdatePatientProfile меняет имя и пол пациента.
func (s *IdentityService) UpdatePatientProfile(ctx context.Context, id uuid.UUID, in UpdateProfileInput) (*model.User, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	if _, err := s.PatientProfile(ctx, id); err != nil {
		return nil, err
	}

	ok, err := s.store.Users.UpdateProfile(ctx, id, in.FullName, in.Gender)
	if err != nil {
		return nil, storageError("update profile", err)
	}
	if !ok {
		return nil, fmt.Errorf("patient %s: %w", id, ErrNotFound)
	}
	u, err := s.store.Users.GetByID(ctx, id)
	if err != nil {
		return nil, storageError("reload patient", err)
	}

	s.log.Info("identity.profile_updated", zap.String("user_id", id.String()))
	return u, nil
}

type ChangePasswordInput struct {
	OldPassword string `validate:"required"`
	NewPassword string `validate:"required,min=6"`
}

// ChangePassword меняет пароль учётки. Старый пароль обязателен;
// при несовпадении возвращается ErrInvalidCredentials.
func (s *IdentityService) ChangePassword(ctx context.Context, userID uuid.UUID, in ChangePasswordInput) error {
	if err := validateInput(in); err != nil {
		return err
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		u, err := tx.Users.GetByID(ctx, userID)
		if err != nil {
			return storageError("get user", err)
		}
		if !auth.VerifyPassword(u.PasswordHash, in.OldPassword) {
			return ErrInvalidCredentials
		}
		hash, err := auth.HashPassword(in.NewPassword)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		ok, err := tx.Users.UpdatePasswordHash(ctx, userID, hash)
		if err != nil {
			return storageError("update password", err)
		}
		if !ok {
			return fmt.Errorf("user %s: %w", userID, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			s.log.Info("identity.password_change_rejected", zap.String("user_id", userID.String()))
		}
		return storageError("change password", err)
	}

	s.log.Info("identity.password_changed", zap.String("user_id", userID.String()))
	return nil
}
