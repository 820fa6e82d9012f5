package validate

import (
	"errors"
	"testing"

	"homedash/dashd/internal/store"
)

func TestString(t *testing.T) {
	if v, err := String("  hello  ", "Name"); err != nil || v != "hello" {
		t.Fatalf("got %q, %v", v, err)
	}
	if _, err := String("   ", "Name"); err == nil {
		t.Fatal("whitespace-only must be rejected")
	}
	var fe *FieldError
	_, err := String("", "Bookmark name")
	if !errors.As(err, &fe) || fe.Field != "Bookmark name" {
		t.Fatalf("error must name the field: %v", err)
	}
}

func TestURL(t *testing.T) {
	valid := []string{"https://example.com", "http://10.0.0.1:8080/path", "https://example.com/?q=1"}
	for _, s := range valid {
		if _, err := URL(s, "URL"); err != nil {
			t.Fatalf("%q rejected: %v", s, err)
		}
	}
	invalid := []string{"", "example.com", "/relative/path", "http://", "not a url"}
	for _, s := range invalid {
		if _, err := URL(s, "URL"); err == nil {
			t.Fatalf("%q accepted", s)
		}
	}
}

func TestIPv4(t *testing.T) {
	valid := []string{"0.0.0.0", "10.0.0.1", "255.255.255.255", " 192.168.1.1 "}
	for _, s := range valid {
		if _, err := IPv4(s); err != nil {
			t.Fatalf("%q rejected: %v", s, err)
		}
	}
	invalid := []string{"", "10.0.0", "10.0.0.0.1", "10.0.0.256", "a.b.c.d", "::1", "fe80::1", "10.0.0.-1", "1.2.3.0004", "1.2.3.+25", "1.+2.3.4", "1.2.3. 4"}
	for _, s := range invalid {
		if _, err := IPv4(s); err == nil {
			t.Fatalf("%q accepted", s)
		}
	}
}

func TestNewPasswordPolicy(t *testing.T) {
	if _, err := NewPassword("short"); err == nil {
		t.Fatal("5 chars accepted")
	}
	if _, err := NewPassword("sixchr"); err != nil {
		t.Fatalf("6 chars rejected: %v", err)
	}
	// Login-path validation has no length policy.
	if _, err := Password("abc"); err != nil {
		t.Fatalf("short login password rejected by validation: %v", err)
	}
}

func TestServiceRecord(t *testing.T) {
	svc, err := Service(store.Service{Name: " router ", IP: " 10.0.0.1 "})
	if err != nil {
		t.Fatal(err)
	}
	if svc.Name != "router" || svc.IP != "10.0.0.1" {
		t.Fatalf("not normalized: %+v", svc)
	}
	if _, err := Service(store.Service{Name: "x", IP: "nope"}); err == nil {
		t.Fatal("bad IP accepted")
	}
	var fe *FieldError
	_, err = Service(store.Service{Name: "", IP: "10.0.0.1"})
	if !errors.As(err, &fe) || fe.Field != "Service name" {
		t.Fatalf("error must identify the failing field: %v", err)
	}
}

func TestAppGroupRecord(t *testing.T) {
	g, err := AppGroup(store.AppGroup{
		Group: " Work ",
		Apps: []store.App{
			{Name: "Jira", URL: "https://jira.example.com", Icon: "https://jira.example.com/icon.png"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if g.Group != "Work" || len(g.Apps) != 1 {
		t.Fatalf("unexpected group: %+v", g)
	}

	// One bad app rejects the whole group.
	_, err = AppGroup(store.AppGroup{
		Group: "Work",
		Apps: []store.App{
			{Name: "Jira", URL: "https://jira.example.com", Icon: "https://jira.example.com/icon.png"},
			{Name: "Bad", URL: "not-a-url", Icon: "https://x.example.com/i.png"},
		},
	})
	if err == nil {
		t.Fatal("group with invalid app accepted")
	}
}

func TestValidationIsIdempotent(t *testing.T) {
	b1, err := Bookmark(store.Bookmark{Name: "  Docs ", URL: " https://docs.example.com ", Icon: "https://docs.example.com/i.png"})
	if err != nil {
		t.Fatal(err)
	}
	b2, err := Bookmark(b1)
	if err != nil {
		t.Fatal(err)
	}
	if b1 != b2 {
		t.Fatalf("validate(validate(x)) != validate(x): %+v vs %+v", b1, b2)
	}
}
