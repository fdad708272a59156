package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContentKind(t *testing.T) {
	tests := []struct {
		in      string
		want    ContentKind
		wantErr bool
	}{
		{"Academic", KindAcademic, false},
		{"academic", KindAcademic, false},
		{"Event", KindEvent, false},
		{" event ", KindEvent, false},
		{"ReportItem", KindReport, false},
		{"report", KindReport, false},
		{"", "", true},
		{"Message", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseContentKind(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContentKind_Mappings(t *testing.T) {
	for _, k := range AllContentKinds {
		assert.True(t, k.Valid(), "%s should be valid", k)
		assert.NotEmpty(t, k.Collection())
		back, err := ParseContentKind(k.FeedType())
		require.NoError(t, err)
		assert.Equal(t, k, back, "feed type should round trip")
	}

	assert.Equal(t, "report_items", KindReport.Collection())
	assert.Equal(t, "report", KindReport.FeedType())
	assert.False(t, ContentKind("Message").Valid())
	assert.Panics(t, func() { _ = ContentKind("Message").Collection() })
}

func TestIsValidCourse(t *testing.T) {
	assert.True(t, IsValidCourse("BS Information Technology"))
	assert.False(t, IsValidCourse("bs information technology"))
	assert.Len(t, CourseValues(), 4)
}

func TestUser_FullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", User{Firstname: "Ada", Lastname: "Lovelace"}.FullName())
	assert.Equal(t, "Ada", User{Firstname: "Ada"}.FullName())
	assert.Equal(t, "Lovelace", User{Lastname: "Lovelace"}.FullName())
}
