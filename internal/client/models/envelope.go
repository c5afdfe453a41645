package models

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

var ErrNoPayload = errors.New("response has no payload")

// Envelope is a raw response body with per-endpoint accessors.
type Envelope struct {
	Status int
	body   []byte
}

func NewEnvelope(status int, body []byte) *Envelope {
	return &Envelope{Status: status, body: body}
}

// Raw returns the body exactly as received.
func (e *Envelope) Raw() json.RawMessage {
	return json.RawMessage(e.body)
}

// Success reads the "success" flag; a body without one counts as success.
func (e *Envelope) Success() bool {
	r := gjson.GetBytes(e.body, "success")
	if !r.Exists() {
		return true
	}
	return r.Bool()
}

func (e *Envelope) Message() string {
	return gjson.GetBytes(e.body, "message").String()
}

// Data returns the "data" member, or the whole body when there is none.
func (e *Envelope) Data() json.RawMessage {
	if r := gjson.GetBytes(e.body, "data"); r.Exists() {
		return json.RawMessage(r.Raw)
	}
	return e.Raw()
}

func (e *Envelope) Cards() ([]Card, error) {
	var out []Card
	return out, e.decodeList(&out, "cards")
}

func (e *Envelope) Contacts() ([]Contact, error) {
	var out []Contact
	return out, e.decodeList(&out, "contacts")
}

func (e *Envelope) Shares() ([]Share, error) {
	var out []Share
	return out, e.decodeList(&out, "shares")
}

// Card picks data.card, card, then data when it is an object.
func (e *Envelope) Card() (Card, error) {
	var c Card
	return c, e.decodeObject(&c, "data.card", "card", "data")
}

func (e *Envelope) Contact() (Contact, error) {
	var c Contact
	return c, e.decodeObject(&c, "data.contact", "contact", "data")
}

// Session picks the token and user of an OTP verification, wherever the
// backend nested them.
func (e *Envelope) Session() (Session, error) {
	token := first(e.body, isString, "token", "data.token", "accessToken", "data.accessToken", "session.token", "data.session.token")
	if !token.Exists() {
		return Session{}, fmt.Errorf("session token: %w", ErrNoPayload)
	}
	s := Session{Token: token.Str, User: json.RawMessage(`{}`)}
	if u := first(e.body, isObject, "user", "data.user"); u.Exists() {
		s.User = json.RawMessage(u.Raw)
	}
	return s, nil
}

// User picks data.user, user, then data.
func (e *Envelope) User() (User, error) {
	var u User
	return u, e.decodeObject(&u, "data.user", "user", "data", "@this")
}

// decodeList tries data.<key>, data, <key>, then the body itself; the first
// array wins. No array anywhere is an empty list.
func (e *Envelope) decodeList(v any, key string) error {
	r := first(e.body, isArray, "data."+key, "data", key, "@this")
	if !r.Exists() {
		return nil
	}
	return json.Unmarshal([]byte(r.Raw), v)
}

func (e *Envelope) decodeObject(v any, paths ...string) error {
	r := first(e.body, isObject, paths...)
	if !r.Exists() {
		return ErrNoPayload
	}
	return json.Unmarshal([]byte(r.Raw), v)
}

func first(body []byte, match func(gjson.Result) bool, paths ...string) gjson.Result {
	for _, p := range paths {
		if r := gjson.GetBytes(body, p); r.Exists() && match(r) {
			return r
		}
	}
	return gjson.Result{}
}

func isString(r gjson.Result) bool { return r.Type == gjson.String && r.Str != "" }

func isArray(r gjson.Result) bool { return r.IsArray() }

func isObject(r gjson.Result) bool { return r.IsObject() }
