// Package settings owns the process-wide configuration that operators may
// change at runtime (historically a bare global mutated by an admin
// command). Updates apply to subsequent operations only, never
// retroactively.
package settings

import "sync"

// Values is a snapshot of the runtime settings.
type Values struct {
	// TargetChatID is the chat whose membership makes a user creditable.
	TargetChatID int64
	// BotUsername is used to build outbound referral links.
	BotUsername string
}

// Service is the single owner of the runtime settings.
type Service struct {
	mu  sync.RWMutex
	cur Values
}

func New(initial Values) *Service {
	return &Service{cur: initial}
}

func (s *Service) Snapshot() Values {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cur
}

// Patch carries optional replacements; nil fields keep the current value.
type Patch struct {
	TargetChatID *int64
	BotUsername  *string
}

func (s *Service) Update(p Patch) Values {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.TargetChatID != nil {
		s.cur.TargetChatID = *p.TargetChatID
	}

	if p.BotUsername != nil {
		s.cur.BotUsername = *p.BotUsername
	}

	return s.cur
}
