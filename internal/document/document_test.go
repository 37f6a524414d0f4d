package document

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pageEnd = regexp.MustCompile(`(?i)Page \d+ of \d+`)

func TestSegment(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  [][]string
	}{
		{
			name:  "two terminated pages",
			lines: []string{"a", "Page 1 of 2", "b", "Page 2 of 2"},
			want:  [][]string{{"a"}, {"b"}},
		},
		{
			name:  "trailing content is dropped",
			lines: []string{"a", "b", "Page 1 of 1", "c", "d"},
			want:  [][]string{{"a", "b"}},
		},
		{
			name:  "no marker yields no pages",
			lines: []string{"a", "b"},
			want:  nil,
		},
		{
			name:  "adjacent markers produce an empty page",
			lines: []string{"Page 1 of 2", "PAGE 2 OF 2"},
			want:  [][]string{{}, {}},
		},
		{
			name:  "marker matched anywhere in the line",
			lines: []string{"x", "Statement date 01/31/24   page 3 of 7", "y"},
			want:  [][]string{{"x"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages := Segment(tt.lines, pageEnd)
			require.Len(t, pages, len(tt.want))
			for i, p := range pages {
				assert.Equal(t, i+1, p.Number)
				assert.Equal(t, tt.want[i], p.Lines)
			}
		})
	}
}

func TestSegment_PageCountMatchesMarkers(t *testing.T) {
	var lines []string
	for n := 0; n < 5; n++ {
		lines = append(lines, "body", "more body", "Page 9 of 9")
	}
	assert.Len(t, Segment(lines, pageEnd), 5)
}

func TestDocument_PagesAreCopies(t *testing.T) {
	doc := New("jan.pdf", []string{"a", "Page 1 of 1"}, pageEnd)

	pages := doc.Pages()
	pages[0].Lines[0] = "mutated"

	assert.Equal(t, "a", doc.Pages()[0].Lines[0])
	assert.Equal(t, 1, doc.PageCount())
	assert.Equal(t, "jan.pdf", doc.Source())
}

func TestDocument_Each(t *testing.T) {
	doc := New("", []string{"a", "b", "Page 1 of 2", "c", "Page 2 of 2"}, pageEnd)

	var seen []string
	var pagesSeen []int
	err := doc.Each(func(page int, line string) error {
		seen = append(seen, line)
		pagesSeen = append(pagesSeen, page)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, seen)
	assert.Equal(t, []int{1, 1, 2}, pagesSeen)

	stop := errors.New("stop")
	count := 0
	err = doc.Each(func(int, string) error {
		count++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, count)
}
