package models

// Session — снимок состояния аутентификации.
//
// Инвариант: Authenticated == true тогда и только тогда, когда присутствуют
// и User, и Tokens. Session — единственный источник истины для «вошёл ли
// пользователь»; владеет им session.Manager, все остальные получают копии.
type Session struct {
	User          *User
	Tokens        *TokenPair
	Authenticated bool
}
