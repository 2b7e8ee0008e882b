// Package form drives the guided conversational forms: an ephemeral per-user
// session buffer and two linear state machines (registration and request
// intake) plus the two single-step prompts (admin password, field edit).
package form

import (
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
)

// Session is the per-user transient form state: the active form, the current
// step, and every field value captured so far. Sessions live only in process
// memory; a restart loses in-flight forms.
type Session struct {
	Form   Form
	Step   Step
	Fields map[string]string

	// Field-edit context, set only for FormFieldEdit.
	RequestID string
	Field     string
}

// SessionStore keeps sessions keyed by Telegram user id. Entries expire
// after sessionTTL so abandoned forms do not accumulate for the life of the
// process; there is no other reaping.
type SessionStore struct {
	cache *cache.Cache
}

const (
	sessionTTL = 24 * time.Hour
	purgeEvery = 10 * time.Minute
)

func NewSessionStore() *SessionStore {
	return &SessionStore{cache: cache.New(sessionTTL, purgeEvery)}
}

func (s *SessionStore) Get(tgID int64) (*Session, bool) {
	if v, found := s.cache.Get(key(tgID)); found {
		return v.(*Session), true
	}
	return nil, false
}

func (s *SessionStore) Put(tgID int64, sess *Session) {
	s.cache.Set(key(tgID), sess, cache.DefaultExpiration)
}

func (s *SessionStore) Clear(tgID int64) {
	s.cache.Delete(key(tgID))
}

func key(tgID int64) string {
	return strconv.FormatInt(tgID, 10)
}
