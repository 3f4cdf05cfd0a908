package i18n

import (
	"net/http/httptest"
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	if err := LoadTranslations("."); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestT(t *testing.T) {
	if got := T("en", "InvalidCredentials"); got != "Invalid username or password." {
		t.Errorf("Unexpected English translation: %q", got)
	}
	if got := T("fr", "InvalidCredentials"); got != "Nom d'utilisateur ou mot de passe invalide." {
		t.Errorf("Unexpected French translation: %q", got)
	}

	// Unknown languages fall back to English, unknown keys to the key.
	if got := T("de", "InvalidCredentials"); got != "Invalid username or password." {
		t.Errorf("Expected English fallback, got %q", got)
	}
	if got := T("en", "NoSuchKey"); got != "NoSuchKey" {
		t.Errorf("Expected key fallback, got %q", got)
	}
}

func TestDetectLanguage(t *testing.T) {
	cases := []struct {
		accept string
		want   string
	}{
		{"fr-CH, fr;q=0.9, en;q=0.8", "fr"},
		{"en-US,en;q=0.5", "en"},
		{"de-DE, de;q=0.9", "en"}, // unsupported -> default
		{"", "en"},
	}

	for _, tc := range cases {
		r := httptest.NewRequest("GET", "/", nil)
		if tc.accept != "" {
			r.Header.Set("Accept-Language", tc.accept)
		}
		if got := DetectLanguage(r); got != tc.want {
			t.Errorf("Accept-Language %q: expected %q, got %q", tc.accept, tc.want, got)
		}
	}
}
