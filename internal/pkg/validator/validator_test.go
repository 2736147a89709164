package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidIP(t *testing.T) {
	valid := []string{"192.168.1.10", "10.0.0.1", "::1", "2001:db8::1"}
	invalid := []string{"", "device.local", "256.1.1.1", "192.168.1"}
	for _, ip := range valid {
		if !IsValidIP(ip) {
			t.Errorf("IsValidIP(%q) = false, want true", ip)
		}
	}
	for _, ip := range invalid {
		if IsValidIP(ip) {
			t.Errorf("IsValidIP(%q) = true, want false", ip)
		}
	}
}

func TestIsValidPort(t *testing.T) {
	cases := []struct {
		port int
		want bool
	}{
		{80, true},
		{65535, true},
		{1, true},
		{0, false},
		{-1, false},
		{65536, false},
	}
	for _, c := range cases {
		if got := IsValidPort(c.port); got != c.want {
			t.Errorf("IsValidPort(%d) = %v, want %v", c.port, got, c.want)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	if _, ok := IsValidDate("2026-08-31"); !ok {
		t.Error("IsValidDate(2026-08-31) = false, want true")
	}
	for _, bad := range []string{"31-08-2026", "2026-13-01", "", "2026-08-31T10:00:00Z"} {
		if _, ok := IsValidDate(bad); ok {
			t.Errorf("IsValidDate(%q) = true, want false", bad)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	roles := []string{"none", "check_in", "check_out"}
	if !IsInSlice("check_in", roles) {
		t.Error("IsInSlice(check_in) = false, want true")
	}
	if IsInSlice("checkin", roles) {
		t.Error("IsInSlice(checkin) = true, want false")
	}
}

func TestIsValidDateTime(t *testing.T) {
	valid := []string{"2026-08-31T10:30:00Z", "2026-08-31T10:30:00+05:00"}
	invalid := []string{"2026-08-31 10:30:00", "2026-08-31T10:30:00", ""}
	for _, s := range valid {
		if _, ok := IsValidDateTime(s); !ok {
			t.Errorf("IsValidDateTime(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if _, ok := IsValidDateTime(s); ok {
			t.Errorf("IsValidDateTime(%q) = true, want false", s)
		}
	}
}
