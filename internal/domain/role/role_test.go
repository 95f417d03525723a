package role

import "testing"

func TestOrdering(t *testing.T) {
	if !(Viewer.Level() < Member.Level() && Member.Level() < Admin.Level() && Admin.Level() < Owner.Level()) {
		t.Fatalf("expected viewer < member < admin < owner, got %d %d %d %d",
			Viewer.Level(), Member.Level(), Admin.Level(), Owner.Level())
	}
}

func TestCanEdit(t *testing.T) {
	if Viewer.CanEdit() {
		t.Fatalf("viewer must not edit")
	}
	for _, r := range []Role{Member, Admin, Owner} {
		if !r.CanEdit() {
			t.Fatalf("expected %s to edit", r)
		}
	}
}

func TestCanManage(t *testing.T) {
	for _, r := range []Role{Viewer, Member} {
		if r.CanManage() {
			t.Fatalf("expected %s not to manage", r)
		}
	}
	for _, r := range []Role{Admin, Owner} {
		if !r.CanManage() {
			t.Fatalf("expected %s to manage", r)
		}
	}
}

func TestIsOwner(t *testing.T) {
	for _, r := range []Role{Viewer, Member, Admin} {
		if r.IsOwner() {
			t.Fatalf("expected %s not to be owner", r)
		}
	}
	if !Owner.IsOwner() {
		t.Fatalf("expected owner to be owner")
	}
}

func TestParseRoundTrip(t *testing.T) {
	for _, r := range []Role{Viewer, Member, Admin, Owner} {
		parsed, err := Parse(r.String())
		if err != nil {
			t.Fatalf("parse %s: %v", r, err)
		}
		if parsed != r {
			t.Fatalf("expected %s, got %s", r, parsed)
		}
	}
}

func TestParseUnknown(t *testing.T) {
	if _, err := Parse("superuser"); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}

func TestScanValue(t *testing.T) {
	value, err := Admin.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if value != "admin" {
		t.Fatalf("expected admin, got %v", value)
	}

	var r Role
	if err := r.Scan("owner"); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if r != Owner {
		t.Fatalf("expected owner, got %s", r)
	}
	if err := r.Scan("nope"); err == nil {
		t.Fatalf("expected scan error for unknown role")
	}
}
