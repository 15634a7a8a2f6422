package services

import (
	"testing"

	"github.com/greenpoint-esg/esg-backend/internal/types"
)

func element(t *testing.T, id string, legacy bool, codes ...string) *types.DataElement {
	t.Helper()
	e := &types.DataElement{ElementID: id, Name: id, RequirementType: types.RequirementMandatory, IsLegacy: legacy}
	if err := e.SetFrameworkCodes(codes); err != nil {
		t.Fatalf("set framework codes: %v", err)
	}
	return e
}

func TestFilterByFrameworks(t *testing.T) {
	elements := []*types.DataElement{
		element(t, "E1", false, types.FrameworkESG),
		element(t, "E2", false, types.FrameworkDST),
		element(t, "E3", false, types.FrameworkDST, types.FrameworkESG),
		element(t, "E4", false, types.FrameworkGreenKey),
		element(t, "E5", true, types.FrameworkESG),
	}

	cases := []struct {
		name    string
		active  []string
		wantIDs []string
	}{
		{
			name:    "esg only",
			active:  []string{types.FrameworkESG},
			wantIDs: []string{"E1", "E3"},
		},
		{
			name:    "dst and esg",
			active:  []string{types.FrameworkESG, types.FrameworkDST},
			wantIDs: []string{"E1", "E2", "E3"},
		},
		{
			name:    "no active frameworks",
			active:  nil,
			wantIDs: nil,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := filterByFrameworks(elements, tc.active)
			if len(got) != len(tc.wantIDs) {
				t.Fatalf("got %d elements, want %d", len(got), len(tc.wantIDs))
			}
			for i, want := range tc.wantIDs {
				if got[i].ElementID != want {
					t.Fatalf("element %d = %s, want %s", i, got[i].ElementID, want)
				}
			}
		})
	}
}

func TestFilterByFrameworksSkipsLegacy(t *testing.T) {
	elements := []*types.DataElement{element(t, "OLD", true, types.FrameworkESG)}
	if got := filterByFrameworks(elements, []string{types.FrameworkESG}); len(got) != 0 {
		t.Fatalf("legacy element must never match, got %d", len(got))
	}
}
