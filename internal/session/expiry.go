package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessExpiry достаёт exp из access-токена без проверки подписи.
//
// Для логики запросов токены непрозрачны (истечение определяется только
// ответом 401 от бэкенда); exp используется исключительно для отображения
// и логов. Если токен не JWT или exp отсутствует — возвращается false.
func AccessExpiry(access string) (time.Time, bool) {
	parser := jwt.NewParser()

	token, _, err := parser.ParseUnverified(access, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}

	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}

	return exp.Time, true
}
