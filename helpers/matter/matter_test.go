package matter

import (
	"math"
	"testing"
)

func TestInternalDimScale(t *testing.T) {
	got := PLA.InternalDimScale(6)
	want := 6*1.002 + .45
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("PLA 6mm hole: got %g, want %g", got, want)
	}
	for _, m := range []ViscousMaterial{PLA, PETG, ABS} {
		if m.InternalDimScale(2) <= 2 {
			t.Errorf("%s does not enlarge holes", m)
		}
	}
}

func TestLookup(t *testing.T) {
	m, err := Lookup(" PETG ")
	if err != nil {
		t.Fatal(err)
	}
	if m != PETG {
		t.Errorf("got %s, want petg", m)
	}
	if _, err := Lookup("wood"); err == nil {
		t.Error("expected error for unknown material")
	}
	if names := Names(); len(names) != 3 || names[0] != "abs" {
		t.Errorf("unexpected names %v", names)
	}
}
