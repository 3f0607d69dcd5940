package utils

import (
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
)

func CreateJWTToken(userID int64, userName string, externalID string, jwtSecretKey string, jwtKid string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = time.Hour * 24
	}

	claims := jwt.MapClaims{}
	claims["authorized"] = true
	claims["userID"] = userID
	claims["name"] = userName
	claims["externalID"] = externalID
	claims["exp"] = time.Now().Add(ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["kid"] = jwtKid

	return token.SignedString([]byte(jwtSecretKey))
}

// ExtractTokenUser reads the user id and external id from the token the JWT
// middleware stored under "user".
func ExtractTokenUser(c echo.Context) (int64, string) {
	user, ok := c.Get("user").(*jwt.Token)
	if !ok || !user.Valid {
		return 0, ""
	}

	claims, ok := user.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ""
	}

	userID, _ := claims["userID"].(float64)
	externalID, _ := claims["externalID"].(string)

	return int64(userID), externalID
}
