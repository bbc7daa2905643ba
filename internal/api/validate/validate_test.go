package validate

import "testing"

func TestNonEmpty(t *testing.T) {
	if err := NonEmpty("title", "Beach day"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := NonEmpty("title", ""); err == nil {
		t.Fatal("empty value accepted")
	}
	if err := NonEmpty("title", "   "); err == nil {
		t.Fatal("whitespace-only value accepted")
	}
}

func TestEmail(t *testing.T) {
	good := []string{"a@b.com", "user.name@example.co.uk", "x_y@sub.domain.io"}
	for _, v := range good {
		if err := Email(v); err != nil {
			t.Errorf("%q rejected: %v", v, err)
		}
	}
	bad := []string{"", "plain", "a@b", "a b@c.com", "@example.com"}
	for _, v := range bad {
		if err := Email(v); err == nil {
			t.Errorf("%q accepted", v)
		}
	}
}

func TestUsername(t *testing.T) {
	good := []string{"abc", "Alice_99", "x_y"}
	for _, v := range good {
		if err := Username(v); err != nil {
			t.Errorf("%q rejected: %v", v, err)
		}
	}
	bad := []string{"", "ab", "has space", "dash-name", "émile"}
	for _, v := range bad {
		if err := Username(v); err == nil {
			t.Errorf("%q accepted", v)
		}
	}
}

func TestImageRef(t *testing.T) {
	good := []string{
		"https://example.com/a.jpg",
		"http://cdn.example.com/path?x=1",
		"data:image/png;base64,iVBORw0KGgo=",
	}
	for _, v := range good {
		if err := ImageRef(v); err != nil {
			t.Errorf("%q rejected: %v", v, err)
		}
	}
	bad := []string{"", "relative/path.jpg", "example.com/a.jpg", "://nope"}
	for _, v := range bad {
		if err := ImageRef(v); err == nil {
			t.Errorf("%q accepted", v)
		}
	}
}
