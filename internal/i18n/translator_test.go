package i18n

import "testing"

func TestTranslator(t *testing.T) {
	tr, err := New("he")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		name   string
		lang   string
		key    string
		params map[string]string
		want   string
	}{
		{"english", "en", "rsvp.values.true", nil, "Yes"},
		{"quoted yaml keys", "en", "rsvp.questions.attendance.false", nil, "Unfortunately not"},
		{"nested option", "en", "rsvp.questions.foodPreference.options.vegan", nil, "Vegan"},
		{"params", "en", "rsvp.columns.messageSent", map[string]string{"channel": "sms"}, "Sent via sms"},
		{"unknown key", "en", "does.not.exist", nil, "does.not.exist"},
		{"unknown language uses default", "fr", "rsvp.values.true", nil, "כן"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tr.T(tt.lang, tt.key, tt.params); got != tt.want {
				t.Errorf("T(%q, %q) = %q, want %q", tt.lang, tt.key, got, tt.want)
			}
		})
	}
}

func TestTranslatorLanguages(t *testing.T) {
	tr, err := New("en")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	langs := tr.Languages()
	if len(langs) != 2 || langs[0] != "en" || langs[1] != "he" {
		t.Fatalf("Languages() = %v, want [en he]", langs)
	}
}

func TestIdentity(t *testing.T) {
	if got := Identity("hi {{name}}", map[string]string{"name": "Dana"}); got != "hi Dana" {
		t.Fatalf("Identity = %q", got)
	}
}
