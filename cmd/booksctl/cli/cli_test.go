package cli

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/SscSPs/smb_books/internal/core/domain"
	"github.com/SscSPs/smb_books/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestKeygen_DefaultFitsAccountNumberKey(t *testing.T) {
	out, err := run(t, "keygen")
	require.NoError(t, err)

	key, err := hex.DecodeString(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Len(t, key, 32)
}

func TestKeygen_RejectsShortKeys(t *testing.T) {
	_, err := run(t, "keygen", "--bytes", "8")
	assert.ErrorContains(t, err, "at least 16")
}

func TestRoot_ListsCommands(t *testing.T) {
	out, err := run(t, "--help")
	require.NoError(t, err)
	for _, name := range []string{"migrate", "accounts", "roles", "integrity", "keygen", "token"} {
		assert.Contains(t, out, name)
	}
}

func TestRolesSet_RequiresRoleArg(t *testing.T) {
	_, err := run(t, "roles", "set")
	assert.Error(t, err)
}

func TestOperatorActor(t *testing.T) {
	_, err := operatorActor("", "")
	assert.Error(t, err)

	actor, err := operatorActor("org-1", "")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOwner, actor.Role)
	assert.Equal(t, "booksctl", actor.UserID)
}

func TestToken_RequiresOrgAndUser(t *testing.T) {
	_, err := run(t, "token", "--org", "org-1")
	assert.ErrorContains(t, err, "--org and --user are required")
}

func TestToken_SignsWithConfiguredSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-test-secret-long-enough-for-hs256")
	out, err := run(t, "token", "--org", "org-1", "--user", "user-1", "--role", "clerk")
	require.NoError(t, err)

	claims, err := utils.ParseAccessToken(strings.TrimSpace(out), "cli-test-secret-long-enough-for-hs256")
	require.NoError(t, err)
	assert.Equal(t, domain.Actor{OrganizationID: "org-1", UserID: "user-1", Role: "clerk"}, claims.Actor())
}
