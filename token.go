package lumin

import (
	"fmt"
	"strings"
)

// Token identifies one app registration with the collection service. The raw
// form is "<appID>:<appSecret>". The secret travels as the appToken field on
// every outbound event; the ID only namespaces local storage keys and never
// leaves the device.
type Token struct {
	AppID     string
	AppSecret string
}

// MalformedTokenError is returned when an app token cannot be split into a
// non-empty ID and secret. A tracker cannot be constructed from one.
type MalformedTokenError struct {
	Raw string
}

func (e *MalformedTokenError) Error() string {
	return fmt.Sprintf("malformed app token %q: expected \"<appID>:<appSecret>\"", e.Raw)
}

// ParseToken splits a raw app token on the first ":".
func ParseToken(raw string) (Token, error) {
	id, secret, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok || id == "" || secret == "" {
		return Token{}, &MalformedTokenError{Raw: raw}
	}
	return Token{AppID: id, AppSecret: secret}, nil
}
