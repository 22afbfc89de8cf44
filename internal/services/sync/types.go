package sync

import (
	"encoding/json"
)

// Identity-provider event types consumed by this service.
const (
	EventUserCreated       = "user.created"
	EventUserUpdated       = "user.updated"
	EventUserDeleted       = "user.deleted"
	EventOrgCreated        = "organization.created"
	EventOrgUpdated        = "organization.updated"
	EventOrgDeleted        = "organization.deleted"
	EventMembershipCreated = "organizationMembership.created"
	EventMembershipUpdated = "organizationMembership.updated"
	EventMembershipDeleted = "organizationMembership.deleted"
)

// ExpectedEventTypes is the full set of event types that must have a handler
// registered. Startup fails if any of these is unhandled.
var ExpectedEventTypes = []string{
	EventUserCreated,
	EventUserUpdated,
	EventUserDeleted,
	EventOrgCreated,
	EventOrgUpdated,
	EventOrgDeleted,
	EventMembershipCreated,
	EventMembershipUpdated,
	EventMembershipDeleted,
}

// KnownEventType reports whether the given event type has a sync handler.
func KnownEventType(eventType string) bool {
	for _, t := range ExpectedEventTypes {
		if t == eventType {
			return true
		}
	}
	return false
}

// Event is the provider's webhook envelope.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// EmailAddress is one entry of a user payload's email address list.
type EmailAddress struct {
	EmailAddress string `json:"email_address"`
}

// UserData is the data object of user.* events.
type UserData struct {
	ID             string         `json:"id"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	Username       *string        `json:"username"`
	ImageURL       string         `json:"image_url"`
	EmailAddresses []EmailAddress `json:"email_addresses"`
}

// OrganizationData is the data object of organization.* events.
type OrganizationData struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	CreatedBy string `json:"created_by"`
	ImageURL  string `json:"image_url"`
	LogoURL   string `json:"logo_url"` // secondary avatar field on older payloads
}

// Avatar returns the organization avatar URL, preferring image_url.
func (d *OrganizationData) Avatar() string {
	if d.ImageURL != "" {
		return d.ImageURL
	}
	return d.LogoURL
}

// PublicUserData is the nested user object some membership payload variants carry.
type PublicUserData struct {
	UserID string `json:"user_id"`
}

// OrganizationRef is the nested organization object of membership payloads.
type OrganizationRef struct {
	ID string `json:"id"`
}

// MembershipData is the data object of organizationMembership.* events. The
// provider is inconsistent about where the user id, organization id, and role
// live, so every known location is captured and resolved by Normalize.
type MembershipData struct {
	UserID         string           `json:"user_id"`
	PublicUserData *PublicUserData  `json:"public_user_data"`
	OrganizationID string           `json:"organization_id"`
	Organization   *OrganizationRef `json:"organization"`
	Role           string           `json:"role"`
	RoleName       string           `json:"role_name"`
}

// Membership is the canonical form of a membership event after payload
// normalization.
type Membership struct {
	UserID      string
	WorkspaceID string
	Role        string // ADMIN or MEMBER
}
