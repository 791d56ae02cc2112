package chat

import "github.com/almaconnect/alumnet/core/profile"

// Group is a computed standing conversation scope. Membership is implicit:
// it is re-derived from the viewer's own profile each session, never stored
// as a roster.
type Group struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// GroupSet holds the up-to-two standing groups an alumni belongs to.
type GroupSet struct {
	Department *Group `json:"department,omitempty"`
	Batch      *Group `json:"batch,omitempty"`
}

// DeriveGroups computes the viewer's standing groups from their profile
// attributes. Two alumni with the same department (and batch) independently
// derive identical group ids. No group is derived when the defining
// attribute is absent.
func DeriveGroups(alum profile.Alumni) GroupSet {
	var gs GroupSet
	if alum.Department == "" {
		return gs
	}
	gs.Department = &Group{
		ID:   DeptKey(alum.Department),
		Name: alum.Department,
		Kind: KindDepartment,
	}
	if alum.Batch != "" {
		gs.Batch = &Group{
			ID:   BatchKey(alum.Department, alum.Batch),
			Name: alum.Department + " - " + alum.Batch,
			Kind: KindBatch,
		}
	}
	return gs
}
