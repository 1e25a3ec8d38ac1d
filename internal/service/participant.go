package service

import (
	"context"
	"fmt"
	"time"

	"github.com/louisbranch/studyhall/internal/authz"
	"github.com/louisbranch/studyhall/internal/domain/session"
	"github.com/louisbranch/studyhall/internal/storage"
)

// ParticipantService manages session participant lists.
type ParticipantService struct {
	store  storage.Store
	policy authz.SessionPolicy
	clock  func() time.Time
}

// NewParticipantService creates a ParticipantService with default
// dependencies.
func NewParticipantService(store storage.Store) *ParticipantService {
	sources := storeSources{store: store}
	return &ParticipantService{
		store:  store,
		policy: authz.SessionPolicy{Sessions: sources, Courses: sources, System: sources},
		clock:  time.Now,
	}
}

// Add adds a member to the session with the given role.
func (s *ParticipantService) Add(ctx context.Context, actorID, sessionID, memberID string, role session.ParticipantRole) (session.Session, error) {
	record, err := s.manageable(ctx, actorID, sessionID)
	if err != nil {
		return session.Session{}, err
	}
	if _, err := s.store.GetMember(ctx, memberID); err != nil {
		return session.Session{}, err
	}
	if err := record.AddParticipant(memberID, role); err != nil {
		return session.Session{}, err
	}
	return s.persist(ctx, record)
}

// Remove removes a member from the session. The sole HOST can never be
// removed, and nobody removes themselves from a root session; Leave is
// the self-removal path for child sessions.
func (s *ParticipantService) Remove(ctx context.Context, actorID, sessionID, memberID string) (session.Session, error) {
	record, err := s.manageable(ctx, actorID, sessionID)
	if err != nil {
		return session.Session{}, err
	}
	if actorID == memberID && record.IsRootSession() {
		return session.Session{}, session.ErrRootSelfLeave
	}
	if err := record.RemoveParticipant(memberID); err != nil {
		return session.Session{}, err
	}
	return s.persist(ctx, record)
}

// ChangeRole changes a participant's session role. Multiple simultaneous
// HOSTs are allowed.
func (s *ParticipantService) ChangeRole(ctx context.Context, actorID, sessionID, memberID string, role session.ParticipantRole) (session.Session, error) {
	record, err := s.manageable(ctx, actorID, sessionID)
	if err != nil {
		return session.Session{}, err
	}
	if err := record.ChangeParticipantRole(memberID, role); err != nil {
		return session.Session{}, err
	}
	return s.persist(ctx, record)
}

// Leave removes the actor from a child session. Root sessions never
// allow self-removal; the actor must ask a manager instead.
func (s *ParticipantService) Leave(ctx context.Context, actorID, sessionID string) (session.Session, error) {
	record, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return session.Session{}, err
	}
	if record.IsRootSession() {
		return session.Session{}, session.ErrRootSelfLeave
	}
	if err := record.RemoveParticipant(actorID); err != nil {
		return session.Session{}, err
	}
	return s.persist(ctx, record)
}

func (s *ParticipantService) manageable(ctx context.Context, actorID, sessionID string) (session.Session, error) {
	record, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return session.Session{}, err
	}
	decision, err := s.policy.CanManageSessionParticipants(ctx, actorID, sessionID)
	if err != nil {
		return session.Session{}, err
	}
	if !decision.Allowed {
		return session.Session{}, denied(decision)
	}
	return record, nil
}

func (s *ParticipantService) persist(ctx context.Context, record session.Session) (session.Session, error) {
	record.UpdatedAt = s.clock().UTC()
	if err := s.store.PutSession(ctx, record); err != nil {
		return session.Session{}, fmt.Errorf("persist session: %w", err)
	}
	return record, nil
}
