package security

import "golang.org/x/crypto/bcrypt"

// Signup and login are interactive, so the work factor stays a notch above
// the library default without making the form feel slow.
const defaultHashCost = 12

// BcryptHasher implements the auth service's PasswordHasher port. The zero
// value is ready to use.
type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.workFactor())
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h BcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (h BcryptHasher) workFactor() int {
	if h.Cost < bcrypt.MinCost || h.Cost > bcrypt.MaxCost {
		return defaultHashCost
	}
	return h.Cost
}
