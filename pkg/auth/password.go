package auth

import "golang.org/x/crypto/bcrypt"

// PasswordCost matches the work factor of hashes already stored in usuarios.
const PasswordCost = 10

func HashPassword(senha string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(senha), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPassword(hash, senha string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(senha)) == nil
}
