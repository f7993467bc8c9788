package config

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. ErrConfigFile also matches
// ErrLoadConfig.
var (
	ErrInvalidConfig = errors.New("invalid venkman config")
	ErrLoadConfig    = errors.New("load venkman config")
	ErrConfigFile    = fmt.Errorf("%w: file named by %s", ErrLoadConfig, FileEnv)
)
