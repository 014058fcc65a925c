package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Виды ошибок ядра. Транспорты сопоставляют их со своими кодами через errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidTransition  = errors.New("invalid transition")
	ErrDoctorNotEligible  = errors.New("doctor not eligible")
	ErrStorage            = errors.New("storage failure")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
)

var kinds = []error{
	ErrNotFound,
	ErrInvalidTransition,
	ErrDoctorNotEligible,
	ErrStorage,
	ErrInvalidCredentials,
	ErrAlreadyExists,
	ErrInvalidArgument,
}

func classified(err error) bool {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return true
		}
	}
	return false
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrNotFound)
}

// storageError приводит ошибку хранилища к одному из видов.
// Уже классифицированные ошибки проходят как есть.
func storageError(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case classified(err):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, ErrAlreadyExists)
	default:
		return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
	}
}

var validate = validator.New()

// validateInput проверяет теги validate и возвращает ErrInvalidArgument
// с перечнем невалидных полей.
func validateInput(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	msg := ""
	for i, fe := range verrs {
		if i > 0 {
			msg += ", "
		}
		msg += fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
	}
	return fmt.Errorf("%w: %s", ErrInvalidArgument, msg)
}
