package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"junglequest/persist"
	"junglequest/persist/storetest"
	"junglequest/record"
)

func TestStore(t *testing.T) {
	s, err := New(t.TempDir(), zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	storetest.Run(t, s)
}

func TestListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)

	f := record.FromLog("x", [2]string{"Alice", "Bob"}, nil, storetest.Clock)
	base := time.Now().Add(-time.Hour)
	for i, key := range []string{"first", "second", "third"} {
		require.NoError(t, s.PutRecord(ctx, key, f))
		stamp := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(filepath.Join(s.RecordDir(), key+".json"), stamp, stamp))
	}

	keys, err := s.List(ctx, persist.KindRecord)
	require.NoError(t, err)
	assert.Equal(t, []string{"third", "second", "first"}, keys)
}

func TestMalformedSaveIsReported(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := New(dir, nil)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "saves", "broken.json"), []byte(`{"version": `), 0644))
	_, err = persist.LoadGame(ctx, s, "broken", storetest.Config())
	var perr *persist.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "load", perr.Op)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "saves", "tiger.json"),
		[]byte(`{"version": "1.0", "current_turn": 0, "board": {"B4": {"species": "Tiger", "owner": 0}}}`), 0644))
	_, err = persist.LoadGame(ctx, s, "tiger", storetest.Config())
	require.ErrorAs(t, err, &perr)
}

func TestDefaultDir(t *testing.T) {
	assert.Equal(t, "junglequest", filepath.Base(DefaultDir()))
}
