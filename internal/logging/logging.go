// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Configure sets up the standard logger at the given level and returns it.
// The level string has already passed config validation, but a direct caller
// may still hand us garbage, so parse errors are surfaced.
func Configure(level string) (*logrus.Logger, error) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	log := logrus.StandardLogger()
	log.SetLevel(parsed)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	return log, nil
}
