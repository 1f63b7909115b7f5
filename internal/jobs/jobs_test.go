// AngelaMos | 2026
// jobs_test.go

package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/sessiongate/internal/core"
	"github.com/carterperez-dev/templates/sessiongate/internal/reminder"
)

type stubRunner struct {
	res reminder.Result
	err error
}

func (s stubRunner) Run(context.Context) (reminder.Result, error) {
	return s.res, s.err
}

func TestRunRemindPartialFailureExitsClean(t *testing.T) {
	var out bytes.Buffer

	err := runRemind(context.Background(), stubRunner{
		res: reminder.Result{Sent: 8, Failed: 2, Total: 10},
	}, &out)

	require.NoError(t, err)

	var got reminder.Result
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, reminder.Result{Sent: 8, Failed: 2, Total: 10}, got)
}

func TestRunRemindTopLevelFailure(t *testing.T) {
	var out bytes.Buffer

	err := runRemind(context.Background(), stubRunner{
		err: errors.New("load reminder targets: connection refused"),
	}, &out)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reminder run")
	assert.Empty(t, out.String())
}

func TestRootCommandTree(t *testing.T) {
	root := NewRootCmd()

	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"remind", "sweep-sessions", "keygen", "hash-password"}, names)
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestRemindRejectsArgs(t *testing.T) {
	root := NewRootCmd()
	root.SetArgs([]string{"remind", "extra"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	assert.Error(t, root.Execute())
}

func TestRemindFailsWithoutConfig(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("CRON_SECRET", "")

	root := NewRootCmd()
	root.SetArgs([]string{"remind"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	assert.Error(t, root.Execute())
}

func TestKeygen(t *testing.T) {
	dir := t.TempDir()
	priv := filepath.Join(dir, "nested", "private.pem")
	pub := filepath.Join(dir, "nested", "public.pem")

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetArgs([]string{"keygen", "--private", priv, "--public", pub})
	root.SetOut(&out)

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), priv)

	for _, p := range []string{priv, pub} {
		raw, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.Contains(t, string(raw), "-----BEGIN")
	}
}

func TestHashPassword(t *testing.T) {
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetArgs([]string{"hash-password"})
	root.SetIn(strings.NewReader("correct horse battery\n"))
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})

	require.NoError(t, root.Execute())

	hash := strings.TrimSpace(out.String())
	ok, err := core.VerifyPassword("correct horse battery", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHashPasswordTooShort(t *testing.T) {
	root := NewRootCmd()
	root.SetArgs([]string{"hash-password"})
	root.SetIn(strings.NewReader("short"))
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	assert.Error(t, root.Execute())
}
