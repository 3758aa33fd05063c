package config

import (
	"os"
	"strconv"
	"time"
)

type RunSvcCfg struct {
	// RunTimeout bounds a whole test suite run; zero disables it
	RunTimeout time.Duration
	// LockTTL is how long an owner lock survives a crashed run
	LockTTL time.Duration
	// StateTTL is how long a finished run can still be polled
	StateTTL            time.Duration
	HistoryWriteTimeout time.Duration
	// PruneInterval is how often finished runs are swept from the in-memory store
	PruneInterval time.Duration
}

func NewRunSvcCfg() *RunSvcCfg {
	return &RunSvcCfg{
		RunTimeout:          secondsEnv("RUN_TIMEOUT_SEC", 0),
		LockTTL:             secondsEnv("RUN_LOCK_TTL_SEC", 300),
		StateTTL:            secondsEnv("RUN_STATE_TTL_SEC", 3600),
		HistoryWriteTimeout: secondsEnv("HISTORY_WRITE_TIMEOUT_SEC", 5),
		PruneInterval:       secondsEnv("RUN_PRUNE_INTERVAL_SEC", 60),
	}
}

func secondsEnv(key string, fallback int) time.Duration {
	varInt, err := strconv.Atoi(os.Getenv(key))
	if err != nil || varInt < 0 {
		varInt = fallback
	}
	return time.Duration(varInt) * time.Second
}

// getEnv gets an environment variable with a fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}
