package command

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"clipforge/internal/services"
)

// Kind selects the output produced by a conversion. The two variants are
// mutually exclusive.
type Kind int

const (
	// KindUnset means no kind was chosen; callers fall back to the session kind.
	KindUnset Kind = iota
	// KindAnimatedImage produces a GIF.
	KindAnimatedImage
	// KindAudio produces an MP3 audio track.
	KindAudio
)

var tokenCaser = cases.Lower(language.Und)

// Label returns the user-facing name of the kind.
func (k Kind) Label() string {
	switch k {
	case KindAnimatedImage:
		return "GIF"
	case KindAudio:
		return "MP3"
	default:
		return ""
	}
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if label := k.Label(); label != "" {
		return label
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token returns the forced engine format token, the lowercased label.
func (k Kind) Token() string {
	return tokenCaser.String(k.Label())
}

// Extension returns the output file extension including the dot.
func (k Kind) Extension() string {
	token := k.Token()
	if token == "" {
		return ""
	}
	return "." + token
}

// Valid reports whether k is one of the output kinds.
func (k Kind) Valid() bool {
	return k == KindAnimatedImage || k == KindAudio
}

// ParseKind resolves a user-supplied kind name case-insensitively.
func ParseKind(value string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "gif":
		return KindAnimatedImage, nil
	case "mp3":
		return KindAudio, nil
	default:
		return KindUnset, services.Wrap(services.ErrInput, "command", "parse kind",
			fmt.Sprintf("unknown output kind %q (want gif or mp3)", value), nil)
	}
}

// OutputName returns the engine output file name for base and kind.
func OutputName(base string, kind Kind) string {
	return base + kind.Extension()
}

// MIMEType returns the content type delivered for kind.
func MIMEType(kind Kind) string {
	switch kind {
	case KindAnimatedImage:
		return "image/gif"
	case KindAudio:
		return "audio/mp3"
	default:
		return ""
	}
}
