package sync

import (
	"fmt"
	"strings"

	"github.com/srynko/teamspace/internal/config"
	"github.com/srynko/teamspace/internal/models"
	"github.com/srynko/teamspace/pkg/logger"
)

// displayName derives a user's display name: "first last" when both are
// present, otherwise the username, otherwise nil.
func displayName(first, last string, username *string) *string {
	first = strings.TrimSpace(first)
	last = strings.TrimSpace(last)
	if first != "" && last != "" {
		name := first + " " + last
		return &name
	}
	if username != nil && *username != "" {
		return username
	}
	return nil
}

// primaryEmail returns the first email address of the payload's list, or nil.
func primaryEmail(addrs []EmailAddress) *string {
	if len(addrs) == 0 || addrs[0].EmailAddress == "" {
		return nil
	}
	return &addrs[0].EmailAddress
}

// NormalizeRole maps a raw provider role string to the closed role set.
// Provider roles may carry an "org:" prefix and arbitrary casing. Unknown
// values are rejected rather than silently defaulted.
func NormalizeRole(raw string) (string, error) {
	role := strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "org:")))
	switch role {
	case models.RoleAdmin, models.RoleMember:
		return role, nil
	}
	return "", fmt.Errorf("unrecognized role %q", raw)
}

// Normalize resolves a membership payload's variant shapes into the canonical
// Membership form. idPrecedence decides which user id wins when the top-level
// and nested fields are both present and disagree.
func (d *MembershipData) Normalize(idPrecedence string) (*Membership, error) {
	flatID := d.UserID
	var nestedID string
	if d.PublicUserData != nil {
		nestedID = d.PublicUserData.UserID
	}

	var userID string
	switch {
	case flatID == "" && nestedID == "":
		return nil, fmt.Errorf("membership payload has no user id")
	case flatID == "":
		userID = nestedID
	case nestedID == "" || flatID == nestedID:
		userID = flatID
	default:
		// Both present and inconsistent; the winner is configured, never guessed.
		if idPrecedence == config.IDPrecedenceFlat {
			userID = flatID
		} else {
			userID = nestedID
		}
		logger.Warn().
			Str("flat_user_id", flatID).
			Str("nested_user_id", nestedID).
			Str("precedence", idPrecedence).
			Msg("membership payload user ids disagree")
	}

	workspaceID := d.OrganizationID
	if workspaceID == "" && d.Organization != nil {
		workspaceID = d.Organization.ID
	}
	if workspaceID == "" {
		return nil, fmt.Errorf("membership payload has no organization id")
	}

	rawRole := d.Role
	if rawRole == "" {
		rawRole = d.RoleName
	}
	role, err := NormalizeRole(rawRole)
	if err != nil {
		return nil, err
	}

	return &Membership{
		UserID:      userID,
		WorkspaceID: workspaceID,
		Role:        role,
	}, nil
}
