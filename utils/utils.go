package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var jwtSecret = []byte("JWT_SECRET")

// SetJWTSecret replaces the signing key; called once from config init.
func SetJWTSecret(secret string) {
	jwtSecret = []byte(secret)
}

// Subject is the decoded identity carried by a bearer token.
type Subject struct {
	ID   uint
	Role string
}

func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}

func CheckPassword(password string, hashedPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

func GenerateJWT(id uint, role string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   id,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	return token.SignedString(jwtSecret)
}

func ParseJWT(tokenString string) (Subject, error) {
	if len(tokenString) > 7 && tokenString[:7] == "Bearer " {
		tokenString = tokenString[7:]
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})
	if err != nil {
		return Subject{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Subject{}, errors.New("invalid token claims")
	}

	id, ok := claims["id"].(float64)
	if !ok {
		return Subject{}, errors.New("id claim is not a number")
	}
	role, ok := claims["role"].(string)
	if !ok {
		return Subject{}, errors.New("role claim is not a string")
	}

	return Subject{ID: uint(id), Role: role}, nil
}
