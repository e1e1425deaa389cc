package campusdesk

import (
	"fmt"
	"net"
	"strings"
	"time"
)

// LintSeverity ranks a [LintWarning].
type LintSeverity int

const (
	LintInfo LintSeverity = iota
	LintWarn
	LintHigh
)

func (s LintSeverity) String() string {
	switch s {
	case LintInfo:
		return "INFO"
	case LintWarn:
		return "WARN"
	case LintHigh:
		return "HIGH"
	default:
		return "UNKNOWN"
	}
}

// LintWarning is a setting that is valid but probably not what was meant.
type LintWarning struct {
	Code     string
	Severity LintSeverity
	Message  string
}

// LintResult is the list returned by [Config.Lint].
type LintResult []LintWarning

// Codes returns the warning codes in order.
func (r LintResult) Codes() []string {
	out := make([]string, len(r))
	for i, w := range r {
		out[i] = w.Code
	}
	return out
}

// AtLeast returns the warnings of severity s or above.
func (r LintResult) AtLeast(s LintSeverity) LintResult {
	var out LintResult
	for _, w := range r {
		if w.Severity >= s {
			out = append(out, w)
		}
	}
	return out
}

// Lint flags valid but questionable settings. It never fails; run [Config.Validate]
// for hard errors.
func (c *Config) Lint() LintResult {
	var ws LintResult
	add := func(code string, sev LintSeverity, format string, args ...any) {
		ws = append(ws, LintWarning{Code: code, Severity: sev, Message: fmt.Sprintf(format, args...)})
	}

	if strings.HasPrefix(c.API.BaseURL, "http://") && !isLoopbackURL(c.API.BaseURL) {
		add("api_plaintext", LintHigh, "API BaseURL %q sends bearer tokens unencrypted", c.API.BaseURL)
	}
	if c.API.Timeout > 2*time.Minute {
		add("api_timeout_long", LintWarn, "API Timeout %s leaves the portal waiting on a dead backend", c.API.Timeout)
	}
	if c.Session.SigningMethod == "" {
		add("token_unverified", LintInfo, "session tokens are decoded without signature verification")
	}
	if c.Storage.Backend == StorageMemory {
		add("storage_ephemeral", LintWarn, "memory storage forgets the session on exit")
	}
	if c.Storage.Backend == StorageFile && !c.Storage.Watch {
		add("storage_unwatched", LintInfo, "logouts from other processes are not observed")
	}
	if c.Polling.StatsInterval < 5*time.Second {
		add("stats_interval_short", LintWarn, "StatsInterval %s polls the backend aggressively", c.Polling.StatsInterval)
	}
	if c.Polling.FeedbackInterval > time.Hour {
		add("feedback_interval_long", LintWarn, "FeedbackInterval %s may skip a whole meal window", c.Polling.FeedbackInterval)
	}
	if len(c.Meals.Windows) == 0 {
		add("feedback_windows_empty", LintInfo, "no meal windows: feedback is never prompted")
	}
	if !c.Notices.Enabled {
		add("notices_disabled", LintWarn, "user-visible outcomes are not reported")
	}
	if c.Notices.Enabled && !c.Notices.DropIfFull {
		add("notices_blocking", LintInfo, "a slow notice sink blocks portal operations")
	}
	if !c.Metrics.Enabled {
		add("metrics_disabled", LintInfo, "the gateway /metrics endpoint reports nothing")
	}
	if !isLoopbackAddr(c.Gateway.Addr) {
		add("gateway_exposed", LintWarn, "gateway listens on %q beyond loopback", c.Gateway.Addr)
	}
	return ws
}

func isLoopbackURL(raw string) bool {
	host := strings.TrimPrefix(raw, "http://")
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	return isLoopbackAddr(host)
}

func isLoopbackAddr(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = strings.Trim(addr, "[]")
	}
	return host == "localhost" || host == "::1" || strings.HasPrefix(host, "127.")
}
