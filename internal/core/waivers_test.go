package core

import "testing"

func TestApplyWaiversByCode(t *testing.T) {
	findings := []Finding{
		{Code: "NET001", Path: "gateway.host"},
		{Code: "RUN001", Path: "logging.level"},
	}
	waivers := []Waiver{{Code: "NET001"}}

	kept, waived := ApplyWaivers(findings, waivers)
	if waived != 1 {
		t.Errorf("waived = %d, want 1", waived)
	}
	if len(kept) != 1 || kept[0].Code != "RUN001" {
		t.Errorf("kept = %v", kept)
	}
}

func TestApplyWaiversPathScoped(t *testing.T) {
	findings := []Finding{
		{Code: "ACCESS001", Path: "channels.a.dmPolicy"},
		{Code: "ACCESS001", Path: "channels.b.dmPolicy"},
	}
	waivers := []Waiver{{Code: "ACCESS001", Path: "channels.a.dmPolicy"}}

	kept, waived := ApplyWaivers(findings, waivers)
	if waived != 1 {
		t.Errorf("waived = %d, want 1", waived)
	}
	if len(kept) != 1 || kept[0].Path != "channels.b.dmPolicy" {
		t.Errorf("kept = %v", kept)
	}
}

func TestApplyWaiversPreservesOrder(t *testing.T) {
	findings := []Finding{
		{Code: "A"}, {Code: "B"}, {Code: "C"}, {Code: "D"},
	}
	kept, waived := ApplyWaivers(findings, []Waiver{{Code: "B"}})
	if waived != 1 || len(kept) != 3 {
		t.Fatalf("kept = %v, waived = %d", kept, waived)
	}
	for i, want := range []string{"A", "C", "D"} {
		if kept[i].Code != want {
			t.Errorf("kept[%d] = %s, want %s", i, kept[i].Code, want)
		}
	}
}

func TestApplyWaiversNoWaivers(t *testing.T) {
	findings := []Finding{{Code: "NET001"}}
	kept, waived := ApplyWaivers(findings, nil)
	if waived != 0 || len(kept) != 1 {
		t.Errorf("kept = %v, waived = %d", kept, waived)
	}
}
