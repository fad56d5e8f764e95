package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pesokrava/review_moderation/internal/config"
	"github.com/Pesokrava/review_moderation/internal/pkg/auth"
)

func TestCommand_IssuesValidToken(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("AUTH_JWT_SECRET", "cli-secret")

	var out bytes.Buffer
	cmd := command()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--subject", "ops@example.com", "--ttl", "15m"})

	require.NoError(t, cmd.Execute())

	cfg, err := config.Load()
	require.NoError(t, err)
	claims, err := auth.NewAuthenticator(cfg.Auth).Validate(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", claims.Subject)
}

func TestCommand_RequiresSubject(t *testing.T) {
	cmd := command()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	assert.Error(t, cmd.Execute())
}

func TestCommand_RequiresConfiguredSecret(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("AUTH_JWT_SECRET", "")

	var out bytes.Buffer
	cmd := command()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--subject", "ops@example.com"})

	err := cmd.Execute()

	assert.ErrorContains(t, err, "AUTH_JWT_SECRET")
	assert.Empty(t, out.String())
}
