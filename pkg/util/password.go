package util

import (
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// secretCost is lower than bcryptCost: reset secrets carry 256 bits of entropy.
const secretCost = bcrypt.DefaultCost

// HashPassword hashes a plain text password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// VerifyPassword checks if a plain text password matches a hashed password
func VerifyPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// HashSecret hashes a one-time secret such as a password reset token
func HashSecret(secret string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), secretCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// VerifySecret compares a presented secret against its stored hash in constant time
func VerifySecret(hashedSecret, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedSecret), []byte(secret)) == nil
}
