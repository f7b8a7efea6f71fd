package app

import (
	"context"
	"fmt"
	"io"

	"github.com/specialistvlad/framekeeper/internal/registry"
	"github.com/specialistvlad/framekeeper/modules/game"
	"github.com/specialistvlad/framekeeper/modules/socketinput"
)

// defaultModules returns the modules compiled into the framekeeper binary.
// When an input URL is configured the game reads a remote socket.io input;
// the returned closer disconnects it.
func defaultModules(ctx context.Context, cfg *Config) ([]registry.Module, io.Closer, error) {
	if cfg.InputURL == "" {
		return []registry.Module{&game.Module{}}, nil, nil
	}
	client, err := socketinput.Dial(ctx, cfg.InputURL, "")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect remote input: %w", err)
	}
	return []registry.Module{&game.Module{Input: client}}, client, nil
}
