package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/agp-labs/builder/pkg/sessions"
)

// NewSessionStore builds the session store from the session URL. redis:// and
// rediss:// URLs use Redis; an empty URL means in-process memory, good for a
// single instance.
func NewSessionStore(ctx context.Context, sessionURL string) (sessions.Store, error) {
	if sessionURL == "" {
		return sessions.NewMemoryStore(), nil
	}

	if strings.HasPrefix(sessionURL, "redis://") || strings.HasPrefix(sessionURL, "rediss://") {
		store, err := sessions.NewRedisStoreFromURL(ctx, sessionURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis session store: %w", err)
		}

		return store, nil
	}

	return nil, fmt.Errorf("unsupported session store URL: %s", sessionURL)
}
