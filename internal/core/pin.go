package core

import "golang.org/x/crypto/bcrypt"

// PINHashCost is the bcrypt cost used for new PIN hashes. Tests lower it.
var PINHashCost = bcrypt.DefaultCost

// HashPIN returns the bcrypt hash of pin. It does not apply the 4-digit rule
// so that legacy payloads with odd values can still be migrated.
func HashPIN(pin string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(pin), PINHashCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CheckPIN reports whether pin matches hash.
func CheckPIN(hash, pin string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}
