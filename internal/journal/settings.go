package journal

import (
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/pbaille/journal/internal/storage"
)

// Settings holds user preferences stored next to the entries.
type Settings struct {
	kv     storage.KV
	logger *zap.Logger
}

func NewSettings(kv storage.KV, logger *zap.Logger) *Settings {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Settings{kv: kv, logger: logger}
}

// DarkMode reports the stored preference. Only the exact value "true"
// means dark mode.
func (s *Settings) DarkMode() bool {
	data, err := s.kv.Get(storage.KeyDarkMode)
	if err != nil {
		if !errors.Is(err, storage.ErrNotExist) {
			s.logger.Warn("read dark mode preference", zap.Error(err))
		}
		return false
	}
	switch string(data) {
	case "true":
		return true
	case "false":
		return false
	default:
		s.logger.Warn("invalid dark mode preference", zap.String("value", string(data)))
		return false
	}
}

// SetDarkMode stores the preference.
func (s *Settings) SetDarkMode(on bool) error {
	if err := s.kv.Set(storage.KeyDarkMode, []byte(strconv.FormatBool(on))); err != nil {
		return &PersistenceError{Op: "save dark mode", Err: err}
	}
	return nil
}
