// Package group implements the group operations: listing with balances,
// create, add user, rename, delete and leave.
//
// Every operation receives the authenticated caller id explicitly. Operations
// on an existing group require the caller to be a member of it; a caller
// outside the group can not tell whether the group exists.
package group

import (
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/splitledger/splitledger/internal/balance"
	"github.com/splitledger/splitledger/internal/db/controller/identity"
	"github.com/splitledger/splitledger/internal/db/controller/membership"
	"github.com/splitledger/splitledger/internal/db/models"
)

// MemberSpec is a user reference taken from a request.
type MemberSpec struct {
	identity.Spec
	// Raw is the reference as the client sent it, echoed back in error messages.
	Raw string
}

// View is a group as seen by one of its members.
type View struct {
	GroupID   uint64
	GroupName string
	// NetBalance of the caller, positive when the caller is owed money.
	NetBalance int64
	// Members excludes the caller. It is nil for brief views.
	Members []balance.MemberBalance
}

// Service runs group operations against the database.
type Service struct {
	db *gorm.DB
}

// NewService creates a new group service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ListGroups returns every group of the caller with the caller's balance and,
// unless brief is set, the balances of the other members.
func (s *Service) ListGroups(callerID uint64, brief bool) ([]View, error) {
	var views []View

	err := s.db.Transaction(func(tx *gorm.DB) error {
		groups, err := membership.ListGroupsOf(tx, callerID)
		if err != nil {
			return err
		}

		views = make([]View, 0, len(groups))

		for i := range groups {
			view, err := buildView(tx, &groups[i], callerID, brief)
			if err != nil {
				return err
			}

			views = append(views, *view)
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Uint64("user_id", callerID).Msg("failed to list groups")
		return nil, storeUnavailable(err)
	}

	return views, nil
}

// GroupDetail returns one group of the caller.
func (s *Service) GroupDetail(callerID, groupID uint64, brief bool) (*View, error) {
	var view *View

	err := s.db.Transaction(func(tx *gorm.DB) error {
		group, err := membership.GetGroupForMember(tx, groupID, callerID)
		if err != nil {
			return err
		}

		view, err = buildView(tx, group, callerID, brief)

		return err
	})

	switch {
	case errors.Is(err, membership.ErrGroupNotFound), errors.Is(err, balance.ErrNotMember):
		return nil, notFound(MsgNotMemberOrNotFound)
	case err != nil:
		log.Error().Err(err).Uint64("user_id", callerID).Uint64("group_id", groupID).Msg("failed to get group")
		return nil, storeUnavailable(err)
	}

	return view, nil
}

func buildView(tx *gorm.DB, group *models.Group, callerID uint64, brief bool) (*View, error) {
	view := &View{
		GroupID:   group.ID,
		GroupName: group.Name,
	}

	if brief {
		net, err := balance.Brief(tx, group.ID, callerID)
		if err != nil {
			return nil, err
		}

		view.NetBalance = net

		return view, nil
	}

	summary, err := balance.Full(tx, group.ID, callerID)
	if err != nil {
		return nil, err
	}

	view.NetBalance = summary.NetBalance
	view.Members = summary.Members

	return view, nil
}

// Create validates every member reference first and only then creates the
// group with the caller and all referenced users in one transaction.
// Nothing is written when any reference is malformed or unknown.
func (s *Service) Create(callerID uint64, name string, members []MemberSpec) (uint64, error) {
	if strings.TrimSpace(name) == "" {
		return 0, invalid(MsgGroupNameNotSet)
	}

	var (
		malformed []string
		unknown   []string
		userIDs   = []uint64{callerID}
	)

	for _, m := range members {
		if m.Empty() {
			malformed = append(malformed, m.Raw)
			continue
		}

		id, err := identity.ResolveID(s.db, m.Spec)

		switch {
		case errors.Is(err, identity.ErrUserNotFound):
			unknown = append(unknown, m.Raw)
			continue
		case err != nil:
			log.Error().Err(err).Uint64("user_id", callerID).Msg("failed to resolve group member")
			return 0, storeUnavailable(err)
		}

		userIDs = append(userIDs, id)
	}

	if len(malformed) > 0 {
		return 0, invalid(MsgMissingUserKey + strings.Join(malformed, ", "))
	}

	if len(unknown) > 0 {
		return 0, notFound(MsgUsersNotFound + strings.Join(unknown, ", "))
	}

	group, err := membership.CreateGroupWithMembers(s.db, name, userIDs)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", callerID).Msg("failed to create group")
		return 0, storeUnavailable(err)
	}

	log.Info().Uint64("user_id", callerID).Uint64("group_id", group.ID).Int("members", len(userIDs)).
		Msg("group created")

	return group.ID, nil
}

// AddUser adds the referenced user to a group of the caller. Adding a member twice is a no-op.
func (s *Service) AddUser(callerID, groupID uint64, target MemberSpec) error {
	if target.Empty() {
		return invalid(MsgMissingUserKey + target.Raw)
	}

	return s.asMember(callerID, groupID, "failed to add user to group", func(tx *gorm.DB) error {
		userID, err := identity.ResolveID(tx, target.Spec)
		if errors.Is(err, identity.ErrUserNotFound) {
			return notFound(MsgUsersNotFound + target.Raw)
		}

		if err != nil {
			return err
		}

		return membership.AddMember(tx, groupID, userID)
	})
}

// Rename changes the name of a group of the caller.
func (s *Service) Rename(callerID, groupID uint64, newName string) error {
	if strings.TrimSpace(newName) == "" {
		return invalid(MsgGroupNewNameNotSet)
	}

	return s.asMember(callerID, groupID, "failed to rename group", func(tx *gorm.DB) error {
		return membership.RenameGroup(tx, groupID, newName)
	})
}

// Delete removes a group of the caller together with all memberships.
// Debts are kept, they belong to the users and not to the group.
func (s *Service) Delete(callerID, groupID uint64) error {
	return s.asMember(callerID, groupID, "failed to delete group", func(tx *gorm.DB) error {
		return membership.DeleteGroup(tx, groupID)
	})
}

// Leave removes the caller from a group. Leaving a group the caller is not in succeeds.
func (s *Service) Leave(callerID, groupID uint64) error {
	if err := membership.RemoveMember(s.db, groupID, callerID); err != nil {
		log.Error().Err(err).Uint64("user_id", callerID).Uint64("group_id", groupID).Msg("failed to leave group")
		return storeUnavailable(err)
	}

	return nil
}

// asMember runs fn in a transaction after checking that the caller belongs to the group.
func (s *Service) asMember(callerID, groupID uint64, failMsg string, fn func(tx *gorm.DB) error) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		isMember, err := membership.IsMember(tx, groupID, callerID)
		if err != nil {
			return err
		}

		if !isMember {
			return notFound(MsgNotMemberOrNotFound)
		}

		return fn(tx)
	})

	var reqErr *RequestError

	switch {
	case err == nil:
		return nil
	case errors.As(err, &reqErr):
		return reqErr
	case errors.Is(err, membership.ErrGroupNotFound):
		return notFound(MsgNotMemberOrNotFound)
	default:
		log.Error().Err(err).Uint64("user_id", callerID).Uint64("group_id", groupID).Msg(failMsg)
		return storeUnavailable(err)
	}
}
