package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeAgo(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name string
		t    time.Time
		want string
	}{
		{"zero time", time.Time{}, ""},
		{"seconds", now.Add(-30 * time.Second), "just now"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"hours", now.Add(-3 * time.Hour), "3h ago"},
		{"days", now.Add(-48 * time.Hour), "2d ago"},
		{"months", now.Add(-70 * 24 * time.Hour), "2mo ago"},
		{"years", now.Add(-800 * 24 * time.Hour), "2y ago"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TimeAgo(tc.t))
		})
	}
}

func TestWrapText(t *testing.T) {
	got := WrapText("the quick brown fox jumps over the lazy dog", 15)
	for _, line := range strings.Split(got, "\n") {
		assert.LessOrEqual(t, len(line), 15)
	}
	assert.Equal(t, "the quick brown fox jumps over the lazy dog",
		strings.Join(strings.Fields(got), " "), "no words lost or reordered")
}

func TestWrapTextLeavesIndentedLinesAlone(t *testing.T) {
	code := "    for i := range xs { total += xs[i] }"
	got := WrapText("intro\n"+code, 10)
	assert.Contains(t, got, code, "indented lines are code and must not wrap")
}

func TestWrapTextZeroWidthIsPassthrough(t *testing.T) {
	assert.Equal(t, "unchanged text", WrapText("unchanged text", 0))
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", Preview("short", 20))
	assert.Equal(t, "func main() { fmt.Println(1) }", Preview("func main() {\n\tfmt.Println(1)\n}", 80))

	got := Preview("a very long single line of code that keeps going and going", 20)
	assert.Equal(t, 20, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "…"))
}
