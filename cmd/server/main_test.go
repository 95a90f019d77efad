package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	root := newRootCmd()

	names := make([]string, 0)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "migrate")
	assert.NotNil(t, root.RunE, "bare invocation serves")
}

func TestMigrateRejectsExtraArgs(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"migrate", "up", "down"})
	err := root.Execute()
	require.Error(t, err)
}

func TestMigrateFailsWithoutConfig(t *testing.T) {
	t.Setenv("PARCEL_DATABASE_URL", "")
	t.Setenv("PARCEL_AUTH_JWT_SECRET", "")

	root := newRootCmd()
	root.SetArgs([]string{"migrate", "status"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}
