package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwttoken "confcentral/internal/jwt_token"
)

func TestTokenCommand(t *testing.T) {
	t.Setenv("CONFCENTRAL_JWT_SIGNING_KEY", "seed-test-key")

	var out bytes.Buffer
	root := rootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"token", "ada", "--email", "ada@example.com", "--name", "Ada"})
	require.NoError(t, root.Execute())

	claims, err := jwttoken.NewJWTService("seed-test-key", "confcentral", "confcentral-api").
		ValidateToken(strings.TrimSpace(out.String()))
	require.NoError(t, err)
	assert.Equal(t, "ada", claims.UserID)
	assert.Equal(t, "Ada", claims.Name)
}

func TestLoadRequiresPostgres(t *testing.T) {
	t.Setenv("CONFCENTRAL_POSTGRES_DSN", "")

	root := rootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"load", "fixtures/demo.yaml"})
	assert.ErrorContains(t, root.Execute(), "CONFCENTRAL_POSTGRES_DSN")
}
