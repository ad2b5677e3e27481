package workflow

import (
	"github.com/google/uuid"

	"pharmassist/agent/contract"
)

// Session carries the per-session state that must survive across workflow
// calls. It is passed explicitly into each call rather than held by the
// engine, so workflow runs stay independently testable.
type Session struct {
	ID string

	identity  contract.Identity
	validated bool
}

func NewSession() *Session {
	return &Session{ID: uuid.NewString()}
}

// Identity returns the remembered authentication pair, if a client was
// validated earlier in this session.
func (s *Session) Identity() (contract.Identity, bool) {
	if s == nil || !s.validated {
		return contract.Identity{}, false
	}
	return s.identity, true
}

// CacheIdentity remembers a validated pair so later workflow runs skip the
// medicare number and date of birth prompts.
func (s *Session) CacheIdentity(id contract.Identity) {
	if s == nil || id.Empty() {
		return
	}
	s.identity = id
	s.validated = true
}
