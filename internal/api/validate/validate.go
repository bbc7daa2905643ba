package validate

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// usernameRx mirrors the registration rules: letters, digits and underscores.
var usernameRx = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

func NonEmpty(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

func MaxLen(field, v string, limit int) error {
	if len(v) > limit {
		return fmt.Errorf("%s exceeds %d characters", field, limit)
	}
	return nil
}

func Email(v string) error {
	if v == "" {
		return fmt.Errorf("email is required")
	}
	if len(v) > 320 || !emailRx.MatchString(v) {
		return fmt.Errorf("invalid email")
	}
	return nil
}

// Username validates account names: at least 3 characters, letters, digits
// and underscores only.
func Username(v string) error {
	if len(v) < 3 {
		return fmt.Errorf("username must be at least 3 characters long")
	}
	if len(v) > 30 {
		return fmt.Errorf("username exceeds 30 characters")
	}
	if !usernameRx.MatchString(v) {
		return fmt.Errorf("username can only contain letters, numbers, and underscores")
	}
	return nil
}

func Password(v string) error {
	if len(v) < 6 {
		return fmt.Errorf("password must be at least 6 characters long")
	}
	return nil
}

// ImageRef validates the image reference of a post: either an embedded
// data: payload, or a syntactically valid absolute URL.
func ImageRef(v string) error {
	if v == "" {
		return fmt.Errorf("image is required")
	}
	if strings.HasPrefix(v, "data:") {
		return nil
	}
	u, err := url.Parse(v)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("image must be a valid URL")
	}
	return nil
}
