package journal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/journal/internal/storage"
)

func TestSettings_DarkMode(t *testing.T) {
	kv := storage.NewMemory()
	s := NewSettings(kv, nil)

	assert.False(t, s.DarkMode(), "unset means light")

	require.NoError(t, s.SetDarkMode(true))
	assert.True(t, s.DarkMode())

	data, err := kv.Get(storage.KeyDarkMode)
	require.NoError(t, err)
	assert.Equal(t, "true", string(data))

	require.NoError(t, s.SetDarkMode(false))
	assert.False(t, s.DarkMode())
}

func TestSettings_OnlyExactTrueIsDark(t *testing.T) {
	for _, value := range []string{"maybe", "1", "t", "T", "TRUE", " true", ""} {
		t.Run(value, func(t *testing.T) {
			kv := storage.NewMemory()
			require.NoError(t, kv.Set(storage.KeyDarkMode, []byte(value)))

			assert.False(t, NewSettings(kv, nil).DarkMode())
		})
	}
}

func TestSettings_WriteFailure(t *testing.T) {
	kv := &failingKV{KV: storage.NewMemory(), setErr: errors.New("full")}
	err := NewSettings(kv, nil).SetDarkMode(true)

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "save dark mode", perr.Op)
}
