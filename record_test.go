package vaultconf_test

import (
	"reflect"
	"testing"

	"github.com/iph0/vaultconf"
)

func TestRecord(t *testing.T) {
	r := vaultconf.Record{"b": "2", "a": "1", "c": ""}

	clone := r.Clone()
	clone["a"] = "changed"

	if r["a"] != "1" {
		t.Error("clone shares storage with the original record")
	}

	if keys := r.Keys(); !reflect.DeepEqual(keys, []string{"a", "b", "c"}) {
		t.Errorf("unexpected keys returned: %v", keys)
	}

	eMap := map[string]any{"a": "1", "b": "2", "c": ""}

	if m := r.Map(); !reflect.DeepEqual(m, eMap) {
		t.Errorf("unexpected map returned: %#v", m)
	}

	var nilRecord vaultconf.Record

	if clone := nilRecord.Clone(); clone == nil || len(clone) != 0 {
		t.Errorf("unexpected clone of nil record: %#v", clone)
	}
}
