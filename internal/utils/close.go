package utils

import (
	"io"

	"github.com/MrSnakeDoc/shelf/internal/logger"
)

// Close closes c and drops the error. For deferred cleanup of readers
// whose close error carries no information.
func Close(c io.Closer) {
	_ = c.Close()
}

// CloseLogged closes c and reports a failure at warn level.
func CloseLogged(c io.Closer, log logger.Logger, what string) {
	if err := c.Close(); err != nil && log != nil {
		log.Warn("failed to close", logger.String("resource", what), logger.Error(err))
	}
}
