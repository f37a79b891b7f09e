package catalog

import (
	"github.com/jask/jaskmods/internal/secrets"
)

const libraryAccount = "library"

// Session tracks whether the user is signed in to the add-on library and
// persists the token between runs.
type Session struct {
	tokens *secrets.Store
	authed bool
}

// NewSession restores sign-in state from the token store.
func NewSession(tokens *secrets.Store) *Session {
	s := &Session{tokens: tokens}
	if _, err := tokens.FetchToken(libraryAccount); err == nil {
		s.authed = true
	}
	return s
}

func (s *Session) Authenticated() bool { return s.authed }

func (s *Session) SignIn(token string) error {
	if err := s.tokens.StoreToken(libraryAccount, token); err != nil {
		return err
	}
	s.authed = true
	return nil
}

func (s *Session) SignOut() error {
	if err := s.tokens.DeleteToken(libraryAccount); err != nil {
		return err
	}
	s.authed = false
	return nil
}
