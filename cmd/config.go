package cmd

import (
	"fmt"

	"github.com/mattsolo1/grove-chatdemo/pkg/playback"
	"github.com/mattsolo1/grove-chatdemo/pkg/script"
	"github.com/mattsolo1/grove-core/config"
	"github.com/mattsolo1/grove-core/logging"
)

//go:generate sh -c "cd .. && go run ./tools/schema-generator/"

var log = logging.NewLogger("chatdemo.cmd")

// loadChatConfig loads the core grove config and unmarshals the 'chatdemo'
// extension on top of the defaults.
func loadChatConfig() (playback.Config, error) {
	coreCfg, err := config.LoadFrom(".")
	if err != nil {
		// It's okay if the core config doesn't exist, we'll just use an empty one.
		log.WithError(err).Debug("No grove config found, using defaults")
		coreCfg = &config.Config{}
	}

	var cfg playback.Config
	if err := coreCfg.UnmarshalExtension("chatdemo", &cfg); err != nil {
		return playback.Config{}, fmt.Errorf("failed to parse 'chatdemo' configuration from grove.yml: %w", err)
	}
	return cfg.WithDefaults(), nil
}

// loadStore returns the builtin scripts, with one locale replaced by the
// user script file when path is set.
func loadStore(path string) (*script.Store, error) {
	store, err := script.LoadBuiltin()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return store, nil
	}
	store, err = script.LoadFile(path, store)
	if err != nil {
		return nil, fmt.Errorf("failed to load scripts: %w", err)
	}
	return store, nil
}
