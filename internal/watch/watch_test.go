package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func waitMsg(t *testing.T, cmd tea.Cmd, timeout time.Duration) (tea.Msg, bool) {
	t.Helper()
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(timeout):
		return nil, false
	}
}

func TestWriteIsReported(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "contacts.db")
	require.NoError(t, os.WriteFile(db, []byte("a"), 0o600))

	w, err := New(db, 20*time.Millisecond, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(db+"-journal", []byte("b"), 0o600))
	msg, ok := waitMsg(t, w.Wait(), 5*time.Second)
	require.True(t, ok, "no change reported")
	changed, isChanged := msg.(ChangedMsg)
	require.True(t, isChanged)
	require.Equal(t, db, changed.Path)
}

func TestUnrelatedFilesAreIgnored(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "contacts.db")

	w, err := New(db, 10*time.Millisecond, nil)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))

	cmd := w.Wait()
	time.Sleep(150 * time.Millisecond)
	require.NoError(t, w.Close())
	// the pending Wait unblocks on Close without a change
	msg, ok := waitMsg(t, cmd, time.Second)
	require.True(t, ok)
	require.Nil(t, msg)
}

func TestCloseIsIdempotent(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "contacts.db"), time.Millisecond, nil)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}
