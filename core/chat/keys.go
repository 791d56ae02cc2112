package chat

import (
	"sort"
	"strings"
)

// Kind tells the three conversation flavors apart by their id shape.
type Kind string

const (
	KindDepartment Kind = "department"
	KindBatch      Kind = "batch"
	KindPersonal   Kind = "personal"
)

// Group and personal conversation ids live in disjoint spaces: group ids
// carry a prefixed tag with ':' separators, personal ids join two auth ids
// with '_'. Auth provider ids never contain ':'.
const (
	deptKeyPrefix  = "dept:"
	batchKeyPrefix = "batch:"
	groupKeySep    = ":"
	personalKeySep = "_"
)

// PersonalKey derives the single conversation id shared by the unordered
// pair {a, b}: both parties converge on the same record without coordination.
func PersonalKey(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return strings.Join(pair, personalKeySep)
}

// SplitPersonalKey recovers the participant pair from a personal conversation id.
func SplitPersonalKey(id string) (a, b string, ok bool) {
	parts := strings.SplitN(id, personalKeySep, 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

// DeptKey derives the department standing-group id.
func DeptKey(department string) string {
	return deptKeyPrefix + department
}

// BatchKey derives the (department, batch) standing-group id.
func BatchKey(department, batch string) string {
	return batchKeyPrefix + department + groupKeySep + batch
}

// KindOf classifies a conversation id.
func KindOf(id string) Kind {
	switch {
	case strings.HasPrefix(id, deptKeyPrefix):
		return KindDepartment
	case strings.HasPrefix(id, batchKeyPrefix):
		return KindBatch
	default:
		return KindPersonal
	}
}

// IsGroup reports whether id denotes a standing group rather than a
// two-party conversation.
func IsGroup(id string) bool {
	return KindOf(id) != KindPersonal
}
