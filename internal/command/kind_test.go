package command

import (
	"errors"
	"testing"

	"clipforge/internal/services"
)

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"gif":   KindAnimatedImage,
		"GIF":   KindAnimatedImage,
		" Mp3 ": KindAudio,
	}
	for input, want := range cases {
		got, err := ParseKind(input)
		if err != nil {
			t.Fatalf("ParseKind(%q) returned error: %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseKind(%q) = %v, want %v", input, got, want)
		}
	}
	if _, err := ParseKind("webm"); !errors.Is(err, services.ErrInput) {
		t.Fatalf("expected ErrInput for unknown kind, got %v", err)
	}
}

func TestKindTokens(t *testing.T) {
	if KindAnimatedImage.Token() != "gif" || KindAudio.Token() != "mp3" {
		t.Fatalf("unexpected tokens %q %q", KindAnimatedImage.Token(), KindAudio.Token())
	}
	if KindUnset.Token() != "" || KindUnset.Valid() {
		t.Fatal("unset kind should have no token")
	}
	if KindUnset.String() != "Kind(0)" {
		t.Fatalf("unexpected unset string %q", KindUnset.String())
	}
}

func TestOutputNameAndMIMEDependOnKindOnly(t *testing.T) {
	for _, base := range []string{"clip", "a b", "output"} {
		if got := OutputName(base, KindAnimatedImage); got != base+".gif" {
			t.Fatalf("OutputName(%q, GIF) = %q", base, got)
		}
		if got := OutputName(base, KindAudio); got != base+".mp3" {
			t.Fatalf("OutputName(%q, MP3) = %q", base, got)
		}
	}
	if MIMEType(KindAnimatedImage) != "image/gif" {
		t.Fatalf("unexpected GIF mime %q", MIMEType(KindAnimatedImage))
	}
	if MIMEType(KindAudio) != "audio/mp3" {
		t.Fatalf("unexpected MP3 mime %q", MIMEType(KindAudio))
	}
}
