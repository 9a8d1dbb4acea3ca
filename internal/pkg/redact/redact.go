// redact — маскирование чувствительных значений перед записью в логи.
// Телефоны и email маскируются частично, чтобы записи можно было
// сопоставлять между собой; токены и пароли в логи не попадают вовсе.
package redact

import "strings"

// Phone оставляет последние четыре цифры номера.
func Phone(s string) string {
	if len(s) <= 4 {
		return "***"
	}

	return "***" + s[len(s)-4:]
}

// Email маскирует локальную часть адреса.
func Email(s string) string {
	parts := strings.Split(s, "@")
	if len(parts) != 2 {
		return "***"
	}

	local, domain := parts[0], parts[1]
	if len(local) > 2 {
		local = local[:2] + "***"
	} else {
		local = "***"
	}

	return local + "@" + domain
}
