package typeid

import (
	"strings"
	"testing"
)

func TestNewElementIDIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewElementID()
		if !strings.HasPrefix(id, PrefixElement+"_") {
			t.Fatalf("id %q missing prefix", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestValidate(t *testing.T) {
	id := NewItemID()
	if err := Validate(id, PrefixItem); err != nil {
		t.Errorf("Validate(%q) = %v", id, err)
	}
	if err := Validate(id, PrefixElement); err == nil {
		t.Error("expected prefix mismatch error")
	}
	if err := Validate("not-a-typeid", PrefixItem); err == nil {
		t.Error("expected parse error")
	}
}
