package teahost

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/shhac/anchortea/internal/overlay"
)

func TestComposite(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		panel string
		pos   overlay.Position
		want  string
	}{
		{
			name:  "pads short rows",
			base:  "..........\n..........\n..........",
			panel: "ab\nc",
			pos:   overlay.Position{Top: 1, Left: 2},
			want:  "..........\n..ab......\n..c ......",
		},
		{
			name:  "off the left edge",
			base:  "......",
			panel: "abc",
			pos:   overlay.Position{Top: 0, Left: -1},
			want:  "bc....",
		},
		{
			name:  "past the bottom",
			base:  "....\n....",
			panel: "ab\ncd\nef",
			pos:   overlay.Position{Top: 1, Left: 0},
			want:  "....\nab..",
		},
		{
			name:  "above the top",
			base:  "....\n....",
			panel: "ab\ncd",
			pos:   overlay.Position{Top: -1, Left: 1},
			want:  ".cd.\n....",
		},
		{
			name:  "base shorter than column",
			base:  "x",
			panel: "y",
			pos:   overlay.Position{Top: 0, Left: 3},
			want:  "x  y",
		},
		{
			name:  "empty panel",
			base:  "abc",
			panel: "",
			pos:   overlay.Position{},
			want:  "abc",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Composite(tt.base, tt.panel, tt.pos); got != tt.want {
				t.Errorf("Composite() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestCompositeStyledPanel(t *testing.T) {
	panel := "\x1b[1mhi\x1b[0m"
	got := Composite("......", panel, overlay.Position{Left: 2})
	if plain := ansi.Strip(got); plain != "..hi.." {
		t.Errorf("plain = %q, want %q", plain, "..hi..")
	}
	if !strings.Contains(got, resetStyle+"..") {
		t.Errorf("style not reset before base suffix: %q", got)
	}
}
