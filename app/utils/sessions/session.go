package sessions

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	sessionCookieName = "cartridge-session"

	cartIDSessionKey     = "cartID"
	sessionKeySessionKey = "sessionKey"
	checkoutSessionKey   = "checkout"
)

type SessionStore interface {
	GetCartID(r *http.Request) string
	SetCartID(w http.ResponseWriter, r *http.Request, cartID string) error
	ClearCartID(w http.ResponseWriter, r *http.Request) error

	SessionKey(w http.ResponseWriter, r *http.Request) (string, error)

	GetCheckout(r *http.Request, v interface{}) error
	SetCheckout(w http.ResponseWriter, r *http.Request, v interface{}) error
	ClearCheckout(w http.ResponseWriter, r *http.Request) error

	ClearSession(w http.ResponseWriter, r *http.Request) error
}

type CookieSessionStore struct {
	store *sessions.CookieStore
}

func NewCookieSessionStore(secure bool, keyPairs ...[]byte) *CookieSessionStore {
	store := sessions.NewCookieStore(keyPairs...)

	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(30 * 24 * time.Hour / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieSessionStore{store: store}
}

// getSession always returns a usable session. A cookie that cannot be decoded
// is replaced by a new session.
func (c *CookieSessionStore) getSession(r *http.Request) *sessions.Session {
	session, err := c.store.Get(r, sessionCookieName)
	if err != nil {
		log.Printf("CookieSessionStore: discarding unreadable session: %v", err)
	}
	return session
}

func (c *CookieSessionStore) getString(r *http.Request, key string) string {
	value, _ := c.getSession(r).Values[key].(string)
	return value
}

func (c *CookieSessionStore) setString(w http.ResponseWriter, r *http.Request, key, value string) error {
	session := c.getSession(r)
	session.Values[key] = value
	return session.Save(r, w)
}

func (c *CookieSessionStore) remove(w http.ResponseWriter, r *http.Request, keys ...string) error {
	session := c.getSession(r)
	for _, key := range keys {
		delete(session.Values, key)
	}
	return session.Save(r, w)
}

func (c *CookieSessionStore) GetCartID(r *http.Request) string {
	return c.getString(r, cartIDSessionKey)
}

func (c *CookieSessionStore) SetCartID(w http.ResponseWriter, r *http.Request, cartID string) error {
	return c.setString(w, r, cartIDSessionKey, cartID)
}

func (c *CookieSessionStore) ClearCartID(w http.ResponseWriter, r *http.Request) error {
	return c.remove(w, r, cartIDSessionKey)
}

// SessionKey returns the random key identifying this browser session,
// creating it on first use. Orders are stamped with it.
func (c *CookieSessionStore) SessionKey(w http.ResponseWriter, r *http.Request) (string, error) {
	if key := c.getString(r, sessionKeySessionKey); key != "" {
		return key, nil
	}
	key := uuid.New().String()
	if err := c.setString(w, r, sessionKeySessionKey, key); err != nil {
		return "", err
	}
	return key, nil
}

// GetCheckout decodes the staged checkout values into v. v is left
// untouched when nothing is staged.
func (c *CookieSessionStore) GetCheckout(r *http.Request, v interface{}) error {
	raw := c.getString(r, checkoutSessionKey)
	if raw == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), v)
}

func (c *CookieSessionStore) SetCheckout(w http.ResponseWriter, r *http.Request, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.setString(w, r, checkoutSessionKey, string(raw))
}

func (c *CookieSessionStore) ClearCheckout(w http.ResponseWriter, r *http.Request) error {
	return c.remove(w, r, checkoutSessionKey)
}

func (c *CookieSessionStore) ClearSession(w http.ResponseWriter, r *http.Request) error {
	session := c.getSession(r)
	session.Values = make(map[interface{}]interface{})
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
