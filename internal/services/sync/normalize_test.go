package sync

import (
	"testing"

	"github.com/srynko/teamspace/internal/config"
)

func strPtr(s string) *string { return &s }

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		first    string
		last     string
		username *string
		want     *string
	}{
		{
			name:  "first and last",
			first: "Ada",
			last:  "Lovelace",
			want:  strPtr("Ada Lovelace"),
		},
		{
			name:     "only first falls back to username",
			first:    "Ada",
			username: strPtr("ada"),
			want:     strPtr("ada"),
		},
		{
			name:     "no names falls back to username",
			username: strPtr("ada"),
			want:     strPtr("ada"),
		},
		{
			name: "nothing available",
			want: nil,
		},
		{
			name:     "empty username is not a fallback",
			username: strPtr(""),
			want:     nil,
		},
		{
			name:  "whitespace-only names ignored",
			first: "  ",
			last:  "Lovelace",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := displayName(tt.first, tt.last, tt.username)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("displayName() = %v, want %v", got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("displayName() = %q, want %q", *got, *tt.want)
			}
		})
	}
}

func TestPrimaryEmail(t *testing.T) {
	if got := primaryEmail(nil); got != nil {
		t.Errorf("primaryEmail(nil) = %q, want nil", *got)
	}
	if got := primaryEmail([]EmailAddress{{EmailAddress: ""}}); got != nil {
		t.Errorf("primaryEmail(empty) = %q, want nil", *got)
	}

	got := primaryEmail([]EmailAddress{
		{EmailAddress: "first@x.com"},
		{EmailAddress: "second@x.com"},
	})
	if got == nil || *got != "first@x.com" {
		t.Errorf("primaryEmail() = %v, want first@x.com", got)
	}
}

func TestNormalizeRole(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "ADMIN", want: "ADMIN"},
		{raw: "MEMBER", want: "MEMBER"},
		{raw: "member", want: "MEMBER"},
		{raw: "Admin", want: "ADMIN"},
		{raw: "org:admin", want: "ADMIN"},
		{raw: "org:member", want: "MEMBER"},
		{raw: " member ", want: "MEMBER"},
		{raw: "owner", wantErr: true},
		{raw: "guest", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := NormalizeRole(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NormalizeRole(%q) expected error, got %q", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeRole(%q) error = %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeRole(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestMembershipNormalize(t *testing.T) {
	tests := []struct {
		name        string
		data        MembershipData
		precedence  string
		wantUser    string
		wantWs      string
		wantRole    string
		wantErr     bool
	}{
		{
			name: "flat fields only",
			data: MembershipData{
				UserID:         "u1",
				OrganizationID: "w1",
				Role:           "member",
			},
			precedence: config.IDPrecedenceNested,
			wantUser:   "u1",
			wantWs:     "w1",
			wantRole:   "MEMBER",
		},
		{
			name: "nested fields only",
			data: MembershipData{
				PublicUserData: &PublicUserData{UserID: "u2"},
				Organization:   &OrganizationRef{ID: "w2"},
				Role:           "org:admin",
			},
			precedence: config.IDPrecedenceNested,
			wantUser:   "u2",
			wantWs:     "w2",
			wantRole:   "ADMIN",
		},
		{
			name: "both present and agreeing",
			data: MembershipData{
				UserID:         "u3",
				PublicUserData: &PublicUserData{UserID: "u3"},
				OrganizationID: "w3",
				Role:           "MEMBER",
			},
			precedence: config.IDPrecedenceFlat,
			wantUser:   "u3",
			wantWs:     "w3",
			wantRole:   "MEMBER",
		},
		{
			name: "disagreement resolved by nested precedence",
			data: MembershipData{
				UserID:         "u-flat",
				PublicUserData: &PublicUserData{UserID: "u-nested"},
				OrganizationID: "w4",
				Role:           "member",
			},
			precedence: config.IDPrecedenceNested,
			wantUser:   "u-nested",
			wantWs:     "w4",
			wantRole:   "MEMBER",
		},
		{
			name: "disagreement resolved by flat precedence",
			data: MembershipData{
				UserID:         "u-flat",
				PublicUserData: &PublicUserData{UserID: "u-nested"},
				OrganizationID: "w5",
				Role:           "member",
			},
			precedence: config.IDPrecedenceFlat,
			wantUser:   "u-flat",
			wantWs:     "w5",
			wantRole:   "MEMBER",
		},
		{
			name: "role_name fallback",
			data: MembershipData{
				UserID:         "u6",
				OrganizationID: "w6",
				RoleName:       "admin",
			},
			precedence: config.IDPrecedenceNested,
			wantUser:   "u6",
			wantWs:     "w6",
			wantRole:   "ADMIN",
		},
		{
			name: "missing user id",
			data: MembershipData{
				OrganizationID: "w7",
				Role:           "member",
			},
			precedence: config.IDPrecedenceNested,
			wantErr:    true,
		},
		{
			name: "missing organization id",
			data: MembershipData{
				UserID: "u8",
				Role:   "member",
			},
			precedence: config.IDPrecedenceNested,
			wantErr:    true,
		},
		{
			name: "unknown role rejected",
			data: MembershipData{
				UserID:         "u9",
				OrganizationID: "w9",
				Role:           "superuser",
			},
			precedence: config.IDPrecedenceNested,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.data.Normalize(tt.precedence)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Normalize() expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			if got.UserID != tt.wantUser {
				t.Errorf("UserID = %q, want %q", got.UserID, tt.wantUser)
			}
			if got.WorkspaceID != tt.wantWs {
				t.Errorf("WorkspaceID = %q, want %q", got.WorkspaceID, tt.wantWs)
			}
			if got.Role != tt.wantRole {
				t.Errorf("Role = %q, want %q", got.Role, tt.wantRole)
			}
		})
	}
}
