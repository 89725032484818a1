package slave

import (
	"reflect"
	"testing"
)

type counter struct {
	Count int
	Label string

	secret int
}

func (c *counter) Add(delta int64) int64 {
	c.Count += int(delta)
	return int64(c.Count)
}

func (c *counter) ExposedPing() string {
	return "pong"
}

func (c *counter) Fails() error {
	return errTestFailure
}

var errTestFailure = errorString("it failed")

type errorString string

func (e errorString) Error() string { return string(e) }

func TestRegisterTwice(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register("counter", &counter{}); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register("counter", &counter{}); err == nil {
		t.Error("registering the same name twice should fail")
	}
}

func TestRegisterNil(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register("nothing", nil); err == nil {
		t.Error("registering nil should fail")
	}
}

func TestUnregister(t *testing.T) {
	reg := NewRegistry()
	reg.Register("counter", &counter{})

	if err := reg.Unregister("counter"); err != nil {
		t.Error(err)
	}
	if err := reg.Unregister("counter"); err == nil {
		t.Error("unregistering a missing object should fail")
	}
}

func TestObjectsSorted(t *testing.T) {
	reg := NewRegistry()
	reg.Register("b", &counter{})
	reg.Register("a", &counter{})

	names := reg.Objects()

	if !reflect.DeepEqual(names, []string{"a", "b"}) {
		t.Error("wrong object list:", names)
	}
}

func TestMethodResolution(t *testing.T) {
	reg := NewRegistry()
	reg.Register("counter", &counter{})

	if _, err := reg.method("counter", "Add", true); err != nil {
		t.Error("public method not resolved:", err)
	}
	if _, err := reg.method("counter", "Add", false); err == nil {
		t.Error("public method resolved despite restrictive policy")
	}
	if _, err := reg.method("counter", "ExposedPing", false); err != nil {
		t.Error("Exposed method must always be resolvable:", err)
	}
	if _, err := reg.method("counter", "NoSuchMethod", true); err == nil {
		t.Error("missing method resolved")
	}
	if _, err := reg.method("ghost", "Add", true); err == nil {
		t.Error("missing object resolved")
	}
}

func TestFieldResolution(t *testing.T) {
	reg := NewRegistry()
	reg.Register("counter", &counter{Count: 3})

	f, err := reg.field("counter", "Count", true, false)

	if err != nil {
		t.Fatal(err)
	}
	if f.Interface().(int) != 3 {
		t.Error("wrong field value:", f.Interface())
	}

	if _, err := reg.field("counter", "Count", false, false); err == nil {
		t.Error("field resolved despite restrictive policy")
	}
	if _, err := reg.field("counter", "secret", true, false); err == nil {
		t.Error("unexported field must never resolve")
	}
}

func TestFieldWriteNeedsPointer(t *testing.T) {
	reg := NewRegistry()
	reg.Register("byvalue", counter{})
	reg.Register("bypointer", &counter{})

	if _, err := reg.field("byvalue", "Count", true, true); err == nil {
		t.Error("field of value-registered object must not be settable")
	}
	if _, err := reg.field("bypointer", "Count", true, true); err != nil {
		t.Error("field of pointer-registered object should be settable:", err)
	}
}

func TestDir(t *testing.T) {
	reg := NewRegistry()
	reg.Register("counter", &counter{})

	members, err := reg.dir("counter", true)

	if err != nil {
		t.Fatal(err)
	}

	expected := []string{"Add", "ExposedPing", "Fails", "Count", "Label"}

	if !reflect.DeepEqual(members, expected) {
		t.Error("wrong member list:", members)
	}

	restricted, err := reg.dir("counter", false)

	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(restricted, []string{"ExposedPing"}) {
		t.Error("wrong restricted member list:", restricted)
	}
}
