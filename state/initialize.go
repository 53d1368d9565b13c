package state

import (
	"time"

	"go.uber.org/zap"

	"sgtool/config"
)

// newLocalEnv creates a new LocalEnv instance with default values. Logger is
// a no-op until configuration is loaded so early code paths may log freely.
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start: time.Now(),
		Log:   zap.NewNop(),
	}
}

// NewTestEnv builds environment with default configuration and given logger.
func NewTestEnv(log *zap.Logger) (*LocalEnv, error) {
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		return nil, err
	}
	env := newLocalEnv()
	env.Cfg, env.Log = cfg, log
	return env, nil
}
