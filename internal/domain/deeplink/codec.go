// Package deeplink кодирует пару (код, часть) в параметр запуска бота.
// Токен — base58 от "code|P1": только [1-9A-HJ-NP-Za-km-z], экранировать в ссылке нечего.
package deeplink

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mr-tron/base58"
)

type Part string

const (
	P1 Part = "P1"
	P2 Part = "P2"
)

const (
	separator = "|"
	// Telegram принимает start-параметр длиной до 64 символов.
	maxTokenLen = 64
)

var (
	ErrMalformedToken = errors.New("deeplink: malformed token")
	ErrInvalidCode    = errors.New("deeplink: invalid content code")
)

func (p Part) Valid() bool { return p == P1 || p == P2 }

func Encode(code string, part Part) (string, error) {
	if code == "" || strings.Contains(code, separator) || !utf8.ValidString(code) {
		return "", fmt.Errorf("%w: %q", ErrInvalidCode, code)
	}
	if !part.Valid() {
		return "", fmt.Errorf("deeplink: invalid part %q", part)
	}
	token := base58.Encode([]byte(code + separator + string(part)))
	if len(token) > maxTokenLen {
		return "", fmt.Errorf("%w: %q is too long for a launch token", ErrInvalidCode, code)
	}
	return token, nil
}

func Decode(token string) (string, Part, error) {
	if token == "" || len(token) > maxTokenLen {
		return "", "", ErrMalformedToken
	}
	raw, err := base58.Decode(token)
	if err != nil || !utf8.Valid(raw) {
		return "", "", ErrMalformedToken
	}
	code, part, ok := strings.Cut(string(raw), separator)
	if !ok || code == "" || strings.Contains(part, separator) || !Part(part).Valid() {
		return "", "", ErrMalformedToken
	}
	return code, Part(part), nil
}

// Link — ссылка, открывающая бота с токеном.
func Link(botUsername, token string) string {
	return fmt.Sprintf("https://t.me/%s?start=%s", botUsername, token)
}
