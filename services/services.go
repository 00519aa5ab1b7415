// Package services talks to the outbound providers that notify the site owner
// about contact requests.
package services

import (
	"strings"

	"github.com/SignorelliLorenzo/portfolio/errs"
	"github.com/rs/zerolog/log"
)

// configured reports whether every key is set. A notifier with only some of
// its keys set is most likely a deployment mistake, so the first missing key
// is logged.
func configured(notifier string, c map[string]string, keys ...string) bool {
	var set int
	var missing string
	for _, key := range keys {
		if strings.TrimSpace(c[key]) != "" {
			set++
		} else if missing == "" {
			missing = key
		}
	}
	if set > 0 && missing != "" {
		log.Warn().Err(errs.NewEnvironmentVariableError(missing)).Str("notifier", notifier).Msg("notifier disabled")
	}
	return missing == ""
}
