package domain

// Profile is the application-level user record keyed off the session principal.
type Profile struct {
	UserID          int32  `json:"user_id"`
	AuthID          string `json:"auth_id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	IsPlatformAdmin bool   `json:"is_platform_admin"`
	CreatedOn       string `json:"created_on"`
}

const (
	RoleNameMember = "member"
	RoleNameAdmin  = "admin"
	RoleNameOwner  = "owner"
)

type Role struct {
	ID      int32   `json:"id"`
	Name    string  `json:"name"`
	OrgType OrgType `json:"org_type"`
}

// MembershipLink grants a user a role within an organisation.
type MembershipLink struct {
	UserID           int32  `json:"user_id"`
	OrgID            int32  `json:"org_id"`
	RoleID           int32  `json:"role_id"`
	RoleName         string `json:"role_name,omitempty"` // populated on reads
	FlatID           *int32 `json:"flat_id"`
	BuildingNumberID *int32 `json:"building_number_id"`
	JoinedOn         string `json:"joined_on"`
}
