package validator

import (
	"testing"

	"github-profile-analyzer/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractUsername(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr string
	}{
		{name: "plain username", input: "torvalds", want: "torvalds"},
		{name: "username with hyphen", input: "octo-cat", want: "octo-cat"},
		{name: "surrounding whitespace", input: "  gaearon \n", want: "gaearon"},
		{name: "https profile url", input: "https://github.com/torvalds", want: "torvalds"},
		{name: "url with www and trailing slash", input: "http://www.github.com/octocat/", want: "octocat"},
		{name: "repository url", input: "https://github.com/golang/go", want: "golang"},
		{name: "url with query", input: "https://github.com/octocat?tab=repositories", want: "octocat"},
		{name: "url with fragment", input: "https://github.com/octocat#readme", want: "octocat"},
		{name: "url with dotted path segment", input: "https://github.com/octocat.evil", wantErr: "Invalid GitHub username or URL"},
		{name: "url with underscore in login", input: "https://github.com/octo_cat", wantErr: "Invalid GitHub username or URL"},
		{name: "empty", input: "   ", wantErr: "cannot be empty"},
		{name: "typo in host", input: "https://gihub.com/torvalds", wantErr: "Did you mean 'github.com'?"},
		{name: "leading hyphen", input: "-octocat", wantErr: "Invalid GitHub username or URL"},
		{name: "trailing hyphen", input: "octocat-", wantErr: "Invalid GitHub username or URL"},
		{name: "other host", input: "https://gitlab.com/octocat", wantErr: "Invalid GitHub username or URL"},
		{name: "illegal characters", input: "octo_cat!", wantErr: "Invalid GitHub username or URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractUsername(tt.input)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.True(t, errors.Is(err, errors.ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsValidUsername(t *testing.T) {
	assert.True(t, IsValidUsername("a"))
	assert.True(t, IsValidUsername("abc-123"))
	assert.False(t, IsValidUsername(""))
	assert.False(t, IsValidUsername("has space"))
}

func TestIsValidProfileURL(t *testing.T) {
	assert.True(t, IsValidProfileURL("https://github.com/octocat"))
	assert.False(t, IsValidProfileURL("octocat"))
	assert.False(t, IsValidProfileURL("ftp://github.com/octocat"))
}
