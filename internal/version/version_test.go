package version

import (
	"strings"
	"testing"
)

func TestVersionStringNonEmpty(t *testing.T) {
	if s := String(); s == "" {
		t.Fatalf("version string is empty")
	}
}

func TestVersionStringCarriesBase(t *testing.T) {
	if !strings.HasPrefix(String(), Version) {
		t.Fatalf("String() = %q does not start with Version %q", String(), Version)
	}
}
