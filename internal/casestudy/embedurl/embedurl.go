// Package embedurl canonicalizes provider share URLs into their embeddable
// form. The same transforms are used by the validation layer and by every
// renderer so that a URL accepted by validation always embeds, and a URL
// rejected by validation renders the same inline error everywhere.
package embedurl

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Provider names match the schema registry's embedurl field providers.
const (
	ProviderYouTube = "youtube"
	ProviderFigma   = "figma"
	ProviderMiro    = "miro"
)

var (
	youtubeWatchRe = regexp.MustCompile(`[?&]v=([A-Za-z0-9_-]{6,})`)
	youtubeShortRe = regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]{6,})`)
	youtubeEmbedRe = regexp.MustCompile(`youtube\.com/embed/([A-Za-z0-9_-]{6,})`)
	miroBoardRe    = regexp.MustCompile(`miro\.com/app/board/([^/?#]+)`)
)

// Canonicalize transforms a raw provider URL into its embeddable form.
// The transform is deterministic and losslessly invertible for figma/miro
// (the original URL survives inside the embed URL). An error means the URL
// matches none of the provider's accepted patterns.
func Canonicalize(provider, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty %s URL", provider)
	}

	switch provider {
	case ProviderYouTube:
		return canonicalizeYouTube(raw)
	case ProviderFigma:
		return canonicalizeFigma(raw)
	case ProviderMiro:
		return canonicalizeMiro(raw)
	}
	return "", fmt.Errorf("unknown embed provider %q", provider)
}

// Accepts reports whether raw matches one of the provider's recognized URL
// patterns. This is the validation-layer check; Canonicalize on an accepted
// URL never fails.
func Accepts(provider, raw string) bool {
	_, err := Canonicalize(provider, raw)
	return err == nil
}

func canonicalizeYouTube(raw string) (string, error) {
	if !strings.Contains(raw, "youtube.com") && !strings.Contains(raw, "youtu.be") {
		return "", fmt.Errorf("not a YouTube URL")
	}
	if m := youtubeEmbedRe.FindStringSubmatch(raw); m != nil {
		return "https://www.youtube.com/embed/" + m[1], nil
	}
	if m := youtubeShortRe.FindStringSubmatch(raw); m != nil {
		return "https://www.youtube.com/embed/" + m[1], nil
	}
	if m := youtubeWatchRe.FindStringSubmatch(raw); m != nil {
		return "https://www.youtube.com/embed/" + m[1], nil
	}
	return "", fmt.Errorf("no video id found in YouTube URL")
}

func canonicalizeFigma(raw string) (string, error) {
	if strings.Contains(raw, "figma.com/embed") {
		return raw, nil
	}
	for _, marker := range []string{"figma.com/file/", "figma.com/design/", "figma.com/proto/"} {
		if strings.Contains(raw, marker) {
			return "https://www.figma.com/embed?embed_host=share&url=" + url.QueryEscape(raw), nil
		}
	}
	return "", fmt.Errorf("not a Figma file, design, proto, or embed URL")
}

func canonicalizeMiro(raw string) (string, error) {
	if strings.Contains(raw, "miro.com/app/live-embed/") {
		return raw, nil
	}
	if m := miroBoardRe.FindStringSubmatch(raw); m != nil {
		return "https://miro.com/app/live-embed/" + m[1] + "/?moveToViewport=-1000,-1000,2000,2000", nil
	}
	return "", fmt.Errorf("not a Miro board or live-embed URL")
}
