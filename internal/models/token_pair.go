package models

// TokenPair — пара bearer-токенов, выдаваемая бэкендом при входе/регистрации.
//
// Описание:
//   - Access — короткоживущий токен для авторизации запросов;
//   - Refresh — долгоживущий секрет для обмена на новый access.
//
// Оба значения непрозрачны для клиента: формат контролирует бэкенд.
// Пара живёт и сохраняется только целиком; access заменяется отдельно
// только успешным refresh-обменом (refresh при этом сохраняется либо
// ротируется, если сервер прислал новый).
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Valid сообщает, пригодна ли пара для использования.
func (t TokenPair) Valid() bool {
	return t.Access != "" && t.Refresh != ""
}

// WithAccess возвращает копию пары с новым access-токеном.
// Если rotated непустой — refresh тоже заменяется (ротация на сервере).
func (t TokenPair) WithAccess(access, rotated string) TokenPair {
	next := TokenPair{Access: access, Refresh: t.Refresh}
	if rotated != "" {
		next.Refresh = rotated
	}

	return next
}
