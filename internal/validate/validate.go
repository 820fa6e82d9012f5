// Package validate holds the single set of input rules for dashboard
// records. Everything here is pure: raw input goes in, a normalized
// value or a field-naming error comes out.
package validate

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"homedash/dashd/internal/store"
)

// FieldError names the field that failed so callers can correct it
// without guessing.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Message }

func fieldErrf(field, format string, args ...any) *FieldError {
	return &FieldError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// String trims s and rejects values that are empty after trimming.
func String(s, name string) (string, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return "", fieldErrf(name, "%s must be a non-empty string", name)
	}
	return t, nil
}

// OptionalString trims s and allows it to be empty.
func OptionalString(s string) string { return strings.TrimSpace(s) }

// URL requires a well-formed absolute URL with scheme and host.
func URL(s, name string) (string, error) {
	t, err := String(s, name)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(t)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fieldErrf(name, "%s must be a valid URL", name)
	}
	return t, nil
}

// IPv4 accepts only four dot-separated decimal octets in [0,255].
// IPv6 and every other shape is rejected.
func IPv4(s string) (string, error) {
	const name = "IP address"
	t, err := String(s, name)
	if err != nil {
		return "", err
	}
	parts := strings.Split(t, ".")
	if len(parts) != 4 {
		return "", fieldErrf(name, "invalid IP address format")
	}
	for _, p := range parts {
		if p == "" || len(p) > 3 {
			return "", fieldErrf(name, "invalid IP address format")
		}
		// Digits only; Atoi alone would let "+25" through.
		for _, c := range p {
			if c < '0' || c > '9' {
				return "", fieldErrf(name, "invalid IP address format")
			}
		}
		if n, _ := strconv.Atoi(p); n > 255 {
			return "", fieldErrf(name, "invalid IP address values")
		}
	}
	return t, nil
}

// Password applies only the non-empty rule; login attempts with short
// passwords are simply tested against the hash and fail normally.
func Password(s string) (string, error) {
	return String(s, "Password")
}

// NewPassword enforces the minimum-length policy for passwords being set.
func NewPassword(s string) (string, error) {
	t, err := Password(s)
	if err != nil {
		return "", err
	}
	if len(t) < 6 {
		return "", fieldErrf("Password", "Password must be at least 6 characters long")
	}
	return t, nil
}

func App(a store.App) (store.App, error) {
	name, err := String(a.Name, "App name")
	if err != nil {
		return store.App{}, err
	}
	u, err := URL(a.URL, "App URL")
	if err != nil {
		return store.App{}, err
	}
	icon, err := URL(a.Icon, "Icon URL")
	if err != nil {
		return store.App{}, err
	}
	return store.App{Name: name, URL: u, Icon: icon}, nil
}

func Bookmark(b store.Bookmark) (store.Bookmark, error) {
	name, err := String(b.Name, "Bookmark name")
	if err != nil {
		return store.Bookmark{}, err
	}
	u, err := URL(b.URL, "Bookmark URL")
	if err != nil {
		return store.Bookmark{}, err
	}
	icon, err := URL(b.Icon, "Icon URL")
	if err != nil {
		return store.Bookmark{}, err
	}
	return store.Bookmark{Name: name, URL: u, Icon: icon}, nil
}

func Service(s store.Service) (store.Service, error) {
	name, err := String(s.Name, "Service name")
	if err != nil {
		return store.Service{}, err
	}
	ip, err := IPv4(s.IP)
	if err != nil {
		return store.Service{}, err
	}
	return store.Service{Name: name, IP: ip}, nil
}

func AppGroup(g store.AppGroup) (store.AppGroup, error) {
	name, err := String(g.Group, "Group name")
	if err != nil {
		return store.AppGroup{}, err
	}
	apps := make([]store.App, 0, len(g.Apps))
	for _, a := range g.Apps {
		v, err := App(a)
		if err != nil {
			return store.AppGroup{}, err
		}
		apps = append(apps, v)
	}
	return store.AppGroup{Group: name, Apps: apps}, nil
}
