package lib

import "testing"
import "fmt"
import "reflect"

var _ = fmt.Sprintf("dummy")

func TestSettingsSection(t *testing.T) {
	setts := Settings{
		"small.initial":  64,
		"small.maxblock": 0,
		"large.initial":  16,
	}
	ref := Settings{"small.initial": 64, "small.maxblock": 0}
	if section := setts.Section("small."); !reflect.DeepEqual(ref, section) {
		t.Errorf("expected %v, got %v", ref, section)
	}
	ref = Settings{"initial": 64, "maxblock": 0}
	if trimmed := setts.Section("small.").Trim("small."); !reflect.DeepEqual(ref, trimmed) {
		t.Errorf("expected %v, got %v", ref, trimmed)
	}
}

func TestSettingsMixin(t *testing.T) {
	setts := Settings{"a": 1, "b": 2}
	setts.Mixin(Settings{"b": 20}, nil, map[string]interface{}{"c": 30})
	ref := Settings{"a": 1, "b": 20, "c": 30}
	if !reflect.DeepEqual(ref, setts) {
		t.Errorf("expected %v, got %v", ref, setts)
	}
	if keys := setts.Keys(); !reflect.DeepEqual(keys, []string{"a", "b", "c"}) {
		t.Errorf("unexpected %v", keys)
	}
}

func TestSettingsGetters(t *testing.T) {
	setts := Settings{
		"int": 10, "int64": int64(20), "uint32": uint32(30),
		"float": 0.5, "bool": true, "string": "hello",
	}
	if v := setts.Int64("int"); v != 10 {
		t.Errorf("expected %v, got %v", 10, v)
	} else if v := setts.Int64("int64"); v != 20 {
		t.Errorf("expected %v, got %v", 20, v)
	} else if v := setts.Int("uint32"); v != 30 {
		t.Errorf("expected %v, got %v", 30, v)
	} else if v := setts.Float64("float"); v != 0.5 {
		t.Errorf("expected %v, got %v", 0.5, v)
	} else if v := setts.Float64("int"); v != 10 {
		t.Errorf("expected %v, got %v", 10, v)
	} else if v := setts.Bool("bool"); v != true {
		t.Errorf("expected %v, got %v", true, v)
	} else if v := setts.String("string"); v != "hello" {
		t.Errorf("expected %v, got %v", "hello", v)
	}
}

func TestSettingsPanic(t *testing.T) {
	setts := Settings{"string": "hello"}
	expectpanic := func(fn func()) {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("expected panic")
			}
		}()
		fn()
	}
	expectpanic(func() { setts.Int64("missing") })
	expectpanic(func() { setts.Int64("string") })
	expectpanic(func() { setts.Bool("string") })
	expectpanic(func() { setts.Float64("string") })
	expectpanic(func() { Settings{"n": 1}.String("n") })
}
