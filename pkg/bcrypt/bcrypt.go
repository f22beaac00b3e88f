package bcrypt

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

type IBcrypt interface {
	HashPassword(password string) (string, error)
	// ComparePassword reports whether password matches the hash. A malformed
	// hash is an error, a wrong password is not.
	ComparePassword(hashPassword string, password string) (bool, error)
}

type bcryptService struct {
	cost int
}

func New() IBcrypt {
	return &bcryptService{cost: bcrypt.DefaultCost}
}

func NewWithCost(cost int) IBcrypt {
	return &bcryptService{cost: cost}
}

func (b *bcryptService) HashPassword(password string) (string, error) {
	result, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", err
	}
	return string(result), nil
}

func (b *bcryptService) ComparePassword(hashPassword string, password string) (bool, error) {
	if hashPassword == "" {
		return false, nil
	}

	err := bcrypt.CompareHashAndPassword([]byte(hashPassword), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}
