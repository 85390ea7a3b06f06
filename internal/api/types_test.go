package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestampAcceptsZonelessDatetimes(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"rfc3339", `"2025-03-01T10:20:30Z"`},
		{"zoneless", `"2025-03-01T10:20:30"`},
		{"zoneless micros", `"2025-03-01T10:20:30.123456"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tc.in), &ts))
			assert.Equal(t, 2025, ts.Year())
			assert.Equal(t, 30, ts.Second())
		})
	}

	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestTagAcceptsStringAndObjectForms(t *testing.T) {
	var s Snippet
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": 1, "title": "t", "code": "c",
		"tags": ["go", {"id": 2, "name": "http"}]
	}`), &s))
	require.Len(t, s.Tags, 2)
	assert.Equal(t, []string{"go", "http"}, s.TagNames())
}

func TestUserValidate(t *testing.T) {
	u := User{ID: 1, Username: "ada"}
	assert.NoError(t, u.Validate())

	assert.Error(t, (&User{Username: "ada"}).Validate())
	assert.Error(t, (&User{ID: 1, Username: "   "}).Validate())
}

func TestSnippetAuthorName(t *testing.T) {
	s := Snippet{}
	assert.Empty(t, s.AuthorName())
	s.Author = &User{ID: 1, Username: "ada"}
	assert.Equal(t, "ada", s.AuthorName())
}
