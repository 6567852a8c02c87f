package configs

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"github.com/gorilla/securecookie"
)

const (
	authKeyLength = 64
	encKeyLength  = 32
	csrfKeyLength = 32
)

// SessionKeys sign and encrypt the cookie that carries the cart id, the
// session key and the staged checkout.
type SessionKeys struct {
	AuthKey []byte
	EncKey  []byte
}

func LoadSessionKeys(env ENV) (*SessionKeys, error) {
	authKey, err := decodeKey("APP_AUTH_KEY", env.AppAuthKey)
	if err != nil {
		return nil, err
	}
	encKey, err := decodeKey("APP_ENC_KEY", env.AppEncKey)
	if err != nil {
		return nil, err
	}
	switch len(encKey) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("APP_ENC_KEY decodes to %d bytes, AES needs 16, 24 or 32", len(encKey))
	}
	return &SessionKeys{AuthKey: authKey, EncKey: encKey}, nil
}

// DecodeCSRFKey returns the storefront CSRF key, or nil when CSRF_KEY is
// unset and protection is off.
func DecodeCSRFKey(raw string) ([]byte, error) {
	if raw == "" {
		return nil, nil
	}
	key, err := decodeKey("CSRF_KEY", raw)
	if err != nil {
		return nil, err
	}
	if len(key) != csrfKeyLength {
		return nil, fmt.Errorf("CSRF_KEY decodes to %d bytes, want %d", len(key), csrfKeyLength)
	}
	return key, nil
}

func decodeKey(name, raw string) ([]byte, error) {
	if raw == "" {
		return nil, fmt.Errorf("%s is not set, run `generate-keys`", name)
	}
	key, err := base64.URLEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%s is not URL-safe base64: %w", name, err)
	}
	return key, nil
}

// GenerateKeys writes fresh APP_AUTH_KEY, APP_ENC_KEY and CSRF_KEY lines to
// out and, when path is not empty, to a new file at path. Replacing the
// session keys drops every cart held in existing cookies.
func GenerateKeys(out io.Writer, path string) error {
	lines := ""
	for _, k := range []struct {
		name   string
		length int
	}{
		{"APP_AUTH_KEY", authKeyLength},
		{"APP_ENC_KEY", encKeyLength},
		{"CSRF_KEY", csrfKeyLength},
	} {
		key := securecookie.GenerateRandomKey(k.length)
		if key == nil {
			return fmt.Errorf("could not generate %s", k.name)
		}
		lines += fmt.Sprintf("%s=%s\n", k.name, base64.URLEncoding.EncodeToString(key))
	}

	if _, err := io.WriteString(out, lines); err != nil {
		return err
	}
	if path == "" {
		return nil
	}
	if err := os.WriteFile(path, []byte(lines), 0o600); err != nil {
		return fmt.Errorf("failed to write keys to %s: %w", path, err)
	}
	return nil
}
