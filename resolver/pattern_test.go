package resolver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileInvalidTemplates(t *testing.T) {
	cases := []struct {
		name     string
		template string
	}{
		{"unknown placeholder", "{{ week }}/posts"},
		{"unterminated placeholder", "{{ year /posts"},
		{"duplicate year", "{{ year }}/{{ year }}"},
		{"duplicate with different spacing", "{{year}}/{{ year }}"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compile(tc.template)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidTemplate)
		})
	}
}

func TestPatternMatch(t *testing.T) {
	cases := []struct {
		name     string
		template string
		path     string
		want     Capture
		wantRest string
		wantOK   bool
	}{
		{
			name:     "full date prefix",
			template: "{{ year }}/{{ month }}/{{ day }}",
			path:     "2024/01/15/hello-world",
			want:     Capture{Year: "2024", Month: "01", Day: "15"},
			wantRest: "hello-world",
			wantOK:   true,
		},
		{
			name:     "year only",
			template: "{{ year }}",
			path:     "2024/hello",
			want:     Capture{Year: "2024"},
			wantRest: "hello",
			wantOK:   true,
		},
		{
			name:     "literal text around placeholder",
			template: "posts/{{ year }}",
			path:     "posts/2024/hello",
			want:     Capture{Year: "2024"},
			wantRest: "hello",
			wantOK:   true,
		},
		{
			name:     "insignificant whitespace in braces",
			template: "{{year}}/{{  month  }}",
			path:     "2024/06/slug",
			want:     Capture{Year: "2024", Month: "06"},
			wantRest: "slug",
			wantOK:   true,
		},
		{
			name:     "empty template passes path through",
			template: "",
			path:     "hello-world",
			wantRest: "hello-world",
			wantOK:   true,
		},
		{
			name:     "literal only prefix",
			template: "blog",
			path:     "blog/hello",
			wantRest: "hello",
			wantOK:   true,
		},
		{
			name:     "year needs exactly four digits",
			template: "{{ year }}",
			path:     "202/hello",
			wantOK:   false,
		},
		{
			name:     "month needs exactly two digits",
			template: "{{ year }}/{{ month }}",
			path:     "2024/1/hello",
			wantOK:   false,
		},
		{
			name:     "letters are not digits",
			template: "{{ year }}",
			path:     "abcd/hello",
			wantOK:   false,
		},
		{
			name:     "prefix alone has no slug",
			template: "{{ year }}",
			path:     "2024",
			wantOK:   false,
		},
		{
			name:     "prefix with trailing slash only",
			template: "{{ year }}",
			path:     "2024/",
			wantOK:   false,
		},
		{
			name:     "wrong literal",
			template: "posts/{{ year }}",
			path:     "articles/2024/hello",
			wantOK:   false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := MustCompile(tc.template)
			capture, rest, ok := p.Match(tc.path)
			require.Equal(t, tc.wantOK, ok)
			if !tc.wantOK {
				return
			}
			assert.Equal(t, tc.want, capture)
			assert.Equal(t, tc.wantRest, rest)
		})
	}
}

func TestPatternMatchCapturesOnlyDeclaredFields(t *testing.T) {
	p := MustCompile("{{ year }}/{{ month }}")
	capture, rest, ok := p.Match("2024/07/my-post")
	require.True(t, ok)
	assert.Equal(t, "2024", capture.Year)
	assert.Equal(t, "07", capture.Month)
	assert.Empty(t, capture.Day)
	assert.Equal(t, "my-post", rest)
}

func TestPatternExpand(t *testing.T) {
	date := time.Date(2024, time.January, 5, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		template string
		want     string
	}{
		{"{{ year }}/{{ month }}/{{ day }}", "2024/01/05"},
		{"{{ year }}", "2024"},
		{"posts/{{ year }}", "posts/2024"},
		{"blog", "blog"},
		{"", ""},
	}
	for _, tc := range cases {
		t.Run(tc.template, func(t *testing.T) {
			assert.Equal(t, tc.want, MustCompile(tc.template).Expand(date))
		})
	}
}

func TestPatternExpandMatchRoundTrip(t *testing.T) {
	p := MustCompile("archive/{{ year }}/{{ month }}")
	date := time.Date(2023, time.November, 30, 0, 0, 0, 0, time.UTC)
	path := p.Expand(date) + "/round-trip"
	capture, rest, ok := p.Match(path)
	require.True(t, ok)
	assert.Equal(t, "2023", capture.Year)
	assert.Equal(t, "11", capture.Month)
	assert.Equal(t, "round-trip", rest)
}
