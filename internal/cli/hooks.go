package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/depviz/pkg/observability"
)

// logBuildHooks mirrors build events onto the debug log. Registered only in
// verbose mode, so normal runs keep the hooks at their no-op defaults.
type logBuildHooks struct {
	observability.NoopBuildHooks
	logger *log.Logger
}

func (h *logBuildHooks) OnLookupComplete(_ context.Context, pkg string, depCount int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debugf("lookup %s failed after %s: %v", pkg, d.Round(time.Millisecond), err)
		return
	}
	h.logger.Debugf("lookup %s: %d direct deps (%s)", pkg, depCount, d.Round(time.Millisecond))
}

func (h *logBuildHooks) OnBuildComplete(_ context.Context, root string, nodes, edges int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debugf("build %s aborted after %s: %v", root, d.Round(time.Millisecond), err)
		return
	}
	h.logger.Debugf("build %s: %d nodes, %d edges (%s)", root, nodes, edges, d.Round(time.Millisecond))
}

type logHTTPHooks struct {
	observability.NoopHTTPHooks
	logger *log.Logger
}

func (h *logHTTPHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debugf("%s %s%s: %d (%s)", method, host, path, status, d.Round(time.Millisecond))
}

func (h *logHTTPHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debugf("%s %s%s: %v", method, host, path, err)
}

// registerDebugHooks mirrors build and HTTP events onto logger.
func registerDebugHooks(logger *log.Logger) {
	observability.SetBuildHooks(&logBuildHooks{logger: logger})
	observability.SetHTTPHooks(&logHTTPHooks{logger: logger})
}
