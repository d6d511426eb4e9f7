package main

import (
	"reflect"
	"testing"
)

func TestParseGrid(t *testing.T) {
	names, ranges, err := parseGrid([]string{"restitution=0.2, 0.5,0.8", "gravity=-9.8"})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(names, []string{"restitution", "gravity"}) {
		t.Errorf("names = %v", names)
	}
	want := [][]float64{{0.2, 0.5, 0.8}, {-9.8}}
	if !reflect.DeepEqual(ranges, want) {
		t.Errorf("ranges = %v, want %v", ranges, want)
	}

	for _, bad := range []string{"restitution", "=1,2", "friction=a,b"} {
		if _, _, err := parseGrid([]string{bad}); err == nil {
			t.Errorf("parseGrid(%q) succeeded", bad)
		}
	}
}
