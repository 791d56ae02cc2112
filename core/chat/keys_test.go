package chat

import "testing"

func TestPersonalKey(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want string
	}{
		{name: "already ordered", a: "abc", b: "xyz", want: "abc_xyz"},
		{name: "reversed", a: "xyz", b: "abc", want: "abc_xyz"},
		{name: "numeric ids", a: "42", b: "17", want: "17_42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PersonalKey(tt.a, tt.b); got != tt.want {
				t.Errorf("PersonalKey() = %q, want %q", got, tt.want)
			}
			// both orderings converge on the same record
			if PersonalKey(tt.a, tt.b) != PersonalKey(tt.b, tt.a) {
				t.Errorf("PersonalKey() is not symmetric for (%q, %q)", tt.a, tt.b)
			}
		})
	}
}

func TestSplitPersonalKey(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		wantA  string
		wantB  string
		wantOk bool
	}{
		{name: "round trip", id: PersonalKey("bob", "alice"), wantA: "alice", wantB: "bob", wantOk: true},
		{name: "no separator", id: "alicebob"},
		{name: "empty left", id: "_bob"},
		{name: "empty", id: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b, ok := SplitPersonalKey(tt.id)
			if a != tt.wantA || b != tt.wantB || ok != tt.wantOk {
				t.Errorf("SplitPersonalKey(%q) = (%q, %q, %v), want (%q, %q, %v)",
					tt.id, a, b, ok, tt.wantA, tt.wantB, tt.wantOk)
			}
		})
	}
}

// Group ids must never collide across kinds. A department named "CS-2020"
// and the (CS, 2020) batch are different rooms.
func TestGroupKeyInjectivity(t *testing.T) {
	if DeptKey("CS") == BatchKey("CS", "") {
		t.Error("DeptKey and BatchKey alias each other")
	}
	if DeptKey("CS-2020") == BatchKey("CS", "2020") {
		t.Error("a hyphenated department aliases a batch group")
	}
	if got := KindOf(DeptKey("CS-2020")); got != KindDepartment {
		t.Errorf("KindOf(dept with hyphen) = %q, want %q", got, KindDepartment)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want Kind
	}{
		{name: "department", id: DeptKey("Computer Science"), want: KindDepartment},
		{name: "batch", id: BatchKey("Computer Science", "2020"), want: KindBatch},
		{name: "personal", id: PersonalKey("u1", "u2"), want: KindPersonal},
		{name: "personal id starting with dept text", id: "department1_u2", want: KindPersonal},
		{name: "empty", id: "", want: KindPersonal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.id); got != tt.want {
				t.Errorf("KindOf(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestIsGroup(t *testing.T) {
	if !IsGroup(DeptKey("EE")) || !IsGroup(BatchKey("EE", "2019")) {
		t.Error("IsGroup() = false for group ids")
	}
	if IsGroup(PersonalKey("u1", "u2")) {
		t.Error("IsGroup() = true for a personal id")
	}
}
