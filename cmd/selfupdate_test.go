package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSelfUpdateCmd(t *testing.T) {
	selfUpdateCmd := newSelfUpdateCmd()

	assert.Equal(t, "self-update", selfUpdateCmd.Use)
	assert.NotEmpty(t, selfUpdateCmd.Short)
	assert.NotEmpty(t, selfUpdateCmd.Long)
	assert.NotNil(t, selfUpdateCmd.RunE)
}

func TestRunSelfUpdateRefusesDevelopmentVersions(t *testing.T) {
	originalVersion := rootCmd.Version
	defer func() { rootCmd.Version = originalVersion }()

	for _, version := range []string{"dev", ""} {
		rootCmd.Version = version

		err := runSelfUpdate(nil, []string{})
		require.Error(t, err, "version %q", version)
		assert.Contains(t, err.Error(), "cannot self-update a development version")
	}
}

func TestSelfUpdateCommandHelp(t *testing.T) {
	selfUpdateCmd := newSelfUpdateCmd()
	var buf bytes.Buffer
	selfUpdateCmd.SetOut(&buf)
	selfUpdateCmd.SetErr(&buf)
	selfUpdateCmd.SetArgs([]string{"--help"})

	require.NoError(t, selfUpdateCmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "Checks for the latest release")
	assert.Contains(t, output, "self-update")
}

func TestGithubRepoSlug(t *testing.T) {
	assert.Equal(t, "sdraeger/DDALAB-docker-ext", githubRepoSlug)
}
