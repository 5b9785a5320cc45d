// Package models defines the classvault data model: the records a tenant
// owns, the whole-state snapshot kept encrypted on the local device, and
// the session produced by a successful login.
package models

// DefaultTenantCode seeds a fresh, never-registered local state. It only
// matters until the owner registers a real code.
const DefaultTenantCode = "1234"

// Member is one student in the roster. Created by the tenant owner;
// its entrance code is rotated only by the member themselves.
type Member struct {
	ID           string `json:"id"`
	DisplayName  string `json:"displayName"`
	EntranceCode string `json:"entranceCode"`
	OwningTenant string `json:"tenantId,omitempty"`
}

// Resource is a catalog entry (a learning site) managed by the owner.
type Resource struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	URL          string `json:"url"`
	Description  string `json:"description"`
	OwningTenant string `json:"tenantId,omitempty"`
}

// Credential links one member to one resource. Password is plaintext in
// memory and inside the local whole-state blob (which is encrypted at
// rest); it must be field-encrypted before it is written to the remote
// store.
type Credential struct {
	ID           string `json:"id"`
	ResourceID   string `json:"resourceId"`
	MemberID     string `json:"memberId"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	OwningTenant string `json:"tenantId,omitempty"`
}

// State is the whole-tenant snapshot: everything one classroom owns.
// It serializes to canonical JSON for the encrypted local blob.
type State struct {
	Members     []Member     `json:"members"`
	Resources   []Resource   `json:"resources"`
	Credentials []Credential `json:"credentials"`
	TenantCode  string       `json:"tenantCode"`
}

// DefaultState returns the empty state a device starts from before any
// owner has registered or logged in.
func DefaultState() *State {
	return &State{
		Members:     []Member{},
		Resources:   []Resource{},
		Credentials: []Credential{},
		TenantCode:  DefaultTenantCode,
	}
}

// Snapshot is the remote store's view of one tenant's records, fetched in
// one pass on login. Credential passwords arrive field-encrypted.
type Snapshot struct {
	Members     []Member
	Resources   []Resource
	Credentials []Credential
}
