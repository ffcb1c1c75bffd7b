// Package secret obtains the Directory Services Restore Mode credential,
// preferring a caller-supplied value over an interactive masked prompt.
// The credential value itself never reaches the logger.
package secret

import (
	"errors"
	"fmt"

	"github.com/forestctl/forestctl/internal/logging"
	"github.com/forestctl/forestctl/internal/messages"
)

// ErrAcquisitionFailed tags every credential failure. The underlying prompt
// error is wrapped, never surfaced verbatim as the top-level message.
var ErrAcquisitionFailed = errors.New("credential acquisition failed")

// Prompter issues a masked interactive prompt.
type Prompter interface {
	SecretInput(title string) (string, error)
}

// Acquire returns supplied unchanged when non-empty, logging only that a
// credential was provided. Otherwise it prompts; an empty result or a prompt
// error becomes ErrAcquisitionFailed with guidance that the user may have
// cancelled or entered invalid input.
func Acquire(log *logging.Logger, prompter Prompter, supplied string) (string, error) {
	if supplied != "" {
		log.Infof(messages.SecretSupplied)
		return supplied, nil
	}

	value, err := prompter.SecretInput(messages.SecretPromptTitle)
	if err != nil {
		wrapped := fmt.Errorf("%w: "+messages.SecretPromptFailedFmt, ErrAcquisitionFailed, err)
		log.Errorf("%v", wrapped)
		return "", wrapped
	}
	if value == "" {
		wrapped := fmt.Errorf("%w: %s", ErrAcquisitionFailed, messages.SecretPromptEmpty)
		log.Errorf("%v", wrapped)
		return "", wrapped
	}
	return value, nil
}
