// Package urlnorm приводит ссылки к сравнимому виду и вычисляет их идентификаторы.
package urlnorm

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

// safeChars - зарезервированные символы URI, которые оставляем как есть.
const safeChars = "!#$%&'()*+,/:;=?@[]~"

const upperHex = "0123456789ABCDEF"

// Normalize обрезает пробелы и перекодирует ссылку: экранированные
// unreserved-символы раскрываются, небезопасные байты экранируются.
// Некорректное экранирование (например, "%zz") возвращает обрезанную строку без изменений.
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	out, ok := requote(trimmed)
	if !ok {
		return trimmed
	}
	return out
}

// ID возвращает hex SHA-1 нормализованной ссылки - ключ в seen-store.
func ID(normalized string) string {
	sum := sha1.Sum([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

func requote(s string) (string, bool) {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '%' {
			if i+2 >= len(s) || !isHex(s[i+1]) || !isHex(s[i+2]) {
				return "", false
			}
			v := unhex(s[i+1])<<4 | unhex(s[i+2])
			if isUnreserved(v) {
				b.WriteByte(v)
			} else {
				b.WriteByte('%')
				b.WriteByte(upperHex[v>>4])
				b.WriteByte(upperHex[v&0x0f])
			}
			i += 2
			continue
		}
		if isUnreserved(c) || strings.IndexByte(safeChars, c) >= 0 {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&0x0f])
	}

	return b.String(), true
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	}
	return false
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
