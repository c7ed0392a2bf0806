package policy

import "testing"

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"principal", "vice_principal", "teacher"} {
		if _, err := ParseRole(valid); err != nil {
			t.Errorf("ParseRole(%q): %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "admin", "Principal", "vice-principal"} {
		if _, err := ParseRole(invalid); err == nil {
			t.Errorf("ParseRole(%q) accepted", invalid)
		}
	}
}

func TestEvaluate(t *testing.T) {
	principal := Subject{Role: RolePrincipal}
	vice := Subject{Role: RoleVicePrincipal, CampusID: "bj01"}
	teacher := Subject{Role: RoleTeacher, CampusID: "bj01", ClassIDs: []string{"C001", "C002"}}

	tests := []struct {
		name string
		sub  Subject
		res  Resource
		act  Action
		want bool
	}{
		{"principal views any campus", principal, Resource{ResourceCampus, "sh01"}, ActionView, true},
		{"principal views all campuses", principal, Resource{ResourceCampus, ""}, ActionView, true},
		{"vice views own campus", vice, Resource{ResourceCampus, "bj01"}, ActionView, true},
		{"vice denied other campus", vice, Resource{ResourceCampus, "sh01"}, ActionView, false},
		{"vice denied all campuses", vice, Resource{ResourceCampus, ""}, ActionView, false},
		{"teacher views own campus", teacher, Resource{ResourceCampus, "bj01"}, ActionView, true},
		{"teacher denied other campus", teacher, Resource{ResourceCampus, "sh01"}, ActionView, false},
		{"teacher denied all campuses", teacher, Resource{ResourceCampus, ""}, ActionView, false},

		{"principal views any class", principal, Resource{ResourceClass, "C999"}, ActionView, true},
		{"vice views any class", vice, Resource{ResourceClass, "C999"}, ActionView, true},
		{"teacher views own class", teacher, Resource{ResourceClass, "C001"}, ActionView, true},
		{"teacher denied other class", teacher, Resource{ResourceClass, "C999"}, ActionView, false},

		{"principal manages vice accounts", principal, Resource{ResourceVicePrincipalAccount, ""}, ActionManage, true},
		{"vice denied vice accounts", vice, Resource{ResourceVicePrincipalAccount, ""}, ActionManage, false},
		{"principal manages teacher accounts", principal, Resource{ResourceTeacherAccount, ""}, ActionManage, true},
		{"vice manages teacher accounts", vice, Resource{ResourceTeacherAccount, ""}, ActionManage, true},
		{"teacher denied teacher accounts", teacher, Resource{ResourceTeacherAccount, ""}, ActionManage, false},

		{"teacher records ledger entries", teacher, Resource{ResourceLedger, ""}, ActionRecord, true},
		{"principal denied ledger recording", principal, Resource{ResourceLedger, ""}, ActionRecord, false},
		{"vice denied ledger recording", vice, Resource{ResourceLedger, ""}, ActionRecord, false},

		{"manage is not view", vice, Resource{ResourceCampus, "bj01"}, ActionManage, false},
		{"unknown resource denied", principal, Resource{ResourceType("unknown"), ""}, ActionView, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Evaluate(tc.sub, tc.res, tc.act); got != tc.want {
				t.Errorf("Evaluate(%+v, %+v, %s) = %v, want %v", tc.sub, tc.res, tc.act, got, tc.want)
			}
		})
	}
}
