package service

import (
	"context"
	"fmt"
	"time"

	"github.com/louisbranch/studyhall/internal/authz"
	"github.com/louisbranch/studyhall/internal/domain/member"
	"github.com/louisbranch/studyhall/internal/domain/problem"
	"github.com/louisbranch/studyhall/internal/platform/id"
	"github.com/louisbranch/studyhall/internal/storage"
)

// ErrInvalidSystemRole indicates an unusable system role value.
var ErrInvalidSystemRole = problem.New("INVALID_SYSTEM_ROLE", "system role is invalid")

// MemberService manages member accounts and system roles.
type MemberService struct {
	store       storage.Store
	clock       func() time.Time
	idGenerator func() (string, error)
}

// NewMemberService creates a MemberService with default dependencies.
func NewMemberService(store storage.Store) *MemberService {
	return &MemberService{
		store:       store,
		clock:       time.Now,
		idGenerator: id.NewID,
	}
}

// Register creates a new member with the default MEMBER system role.
func (s *MemberService) Register(ctx context.Context, nickname string) (member.Member, error) {
	record, err := member.Register(nickname, s.clock, s.idGenerator)
	if err != nil {
		return member.Member{}, err
	}
	if err := s.store.PutMember(ctx, record); err != nil {
		return member.Member{}, fmt.Errorf("persist member: %w", err)
	}
	return record, nil
}

// Get returns one member by ID.
func (s *MemberService) Get(ctx context.Context, memberID string) (member.Member, error) {
	return s.store.GetMember(ctx, memberID)
}

// List returns every registered member.
func (s *MemberService) List(ctx context.Context) ([]member.Member, error) {
	return s.store.ListMembers(ctx)
}

// ChangeSystemRole assigns a new system role to the target member. Only
// admins may change system roles.
func (s *MemberService) ChangeSystemRole(ctx context.Context, actorID, targetID string, role member.SystemRole) (member.Member, error) {
	if !role.IsValid() {
		return member.Member{}, ErrInvalidSystemRole
	}
	actor, err := s.store.GetMember(ctx, actorID)
	if err != nil {
		return member.Member{}, err
	}
	if actor.Role != member.SystemRoleAdmin {
		return member.Member{}, denied(authz.Decision{ReasonCode: authz.ReasonDenySystemRole})
	}

	target, err := s.store.GetMember(ctx, targetID)
	if err != nil {
		return member.Member{}, err
	}
	target.Role = role
	target.UpdatedAt = s.clock().UTC()
	if err := s.store.PutMember(ctx, target); err != nil {
		return member.Member{}, fmt.Errorf("persist member: %w", err)
	}
	return target, nil
}
