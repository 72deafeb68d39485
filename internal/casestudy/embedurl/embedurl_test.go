package embedurl

import (
	"testing"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		raw      string
		want     string
		wantErr  bool
	}{
		{
			name:     "youtube short link",
			provider: ProviderYouTube,
			raw:      "https://youtu.be/abc123",
			want:     "https://www.youtube.com/embed/abc123",
		},
		{
			name:     "youtube watch link",
			provider: ProviderYouTube,
			raw:      "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			want:     "https://www.youtube.com/embed/dQw4w9WgXcQ",
		},
		{
			name:     "youtube watch link with extra params",
			provider: ProviderYouTube,
			raw:      "https://www.youtube.com/watch?t=30&v=dQw4w9WgXcQ&list=x",
			want:     "https://www.youtube.com/embed/dQw4w9WgXcQ",
		},
		{
			name:     "youtube embed link passes through",
			provider: ProviderYouTube,
			raw:      "https://www.youtube.com/embed/dQw4w9WgXcQ",
			want:     "https://www.youtube.com/embed/dQw4w9WgXcQ",
		},
		{
			name:     "vimeo rejected",
			provider: ProviderYouTube,
			raw:      "https://vimeo.com/123",
			wantErr:  true,
		},
		{
			name:     "youtube host without video id rejected",
			provider: ProviderYouTube,
			raw:      "https://www.youtube.com/feed/subscriptions",
			wantErr:  true,
		},
		{
			name:     "figma file link wrapped and encoded",
			provider: ProviderFigma,
			raw:      "https://www.figma.com/file/XYZ/Name",
			want:     "https://www.figma.com/embed?embed_host=share&url=https%3A%2F%2Fwww.figma.com%2Ffile%2FXYZ%2FName",
		},
		{
			name:     "figma design link wrapped",
			provider: ProviderFigma,
			raw:      "https://www.figma.com/design/AB12/My-Design",
			want:     "https://www.figma.com/embed?embed_host=share&url=https%3A%2F%2Fwww.figma.com%2Fdesign%2FAB12%2FMy-Design",
		},
		{
			name:     "figma embed link passes through",
			provider: ProviderFigma,
			raw:      "https://www.figma.com/embed?embed_host=share&url=x",
			want:     "https://www.figma.com/embed?embed_host=share&url=x",
		},
		{
			name:     "figma profile link rejected",
			provider: ProviderFigma,
			raw:      "https://www.figma.com/@someone",
			wantErr:  true,
		},
		{
			name:     "miro board link",
			provider: ProviderMiro,
			raw:      "https://miro.com/app/board/uXjVOcKGjZo=/",
			want:     "https://miro.com/app/live-embed/uXjVOcKGjZo=/?moveToViewport=-1000,-1000,2000,2000",
		},
		{
			name:     "miro live-embed link passes through",
			provider: ProviderMiro,
			raw:      "https://miro.com/app/live-embed/uXjVOcKGjZo=/?moveToViewport=-1000,-1000,2000,2000",
			want:     "https://miro.com/app/live-embed/uXjVOcKGjZo=/?moveToViewport=-1000,-1000,2000,2000",
		},
		{
			name:     "miro dashboard rejected",
			provider: ProviderMiro,
			raw:      "https://miro.com/app/dashboard/",
			wantErr:  true,
		},
		{
			name:     "empty url rejected",
			provider: ProviderYouTube,
			raw:      "   ",
			wantErr:  true,
		},
		{
			name:     "unknown provider rejected",
			provider: "loom",
			raw:      "https://loom.com/share/x",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Canonicalize(tt.provider, tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Canonicalize() expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Canonicalize() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Canonicalize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCanonicalizeIsIdempotent(t *testing.T) {
	inputs := map[string]string{
		ProviderYouTube: "https://youtu.be/abc123",
		ProviderFigma:   "https://www.figma.com/file/XYZ/Name",
		ProviderMiro:    "https://miro.com/app/board/uXjVOcKGjZo=/",
	}

	for provider, raw := range inputs {
		once, err := Canonicalize(provider, raw)
		if err != nil {
			t.Fatalf("%s: first pass: %v", provider, err)
		}
		twice, err := Canonicalize(provider, once)
		if err != nil {
			t.Fatalf("%s: second pass: %v", provider, err)
		}
		if once != twice {
			t.Errorf("%s: canonical form not stable: %q != %q", provider, once, twice)
		}
	}
}
