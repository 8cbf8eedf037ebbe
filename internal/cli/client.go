package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/scorekeeper/internal/backend"
	"github.com/mcoot/scorekeeper/internal/gateway"
	"github.com/mcoot/scorekeeper/internal/model"
)

// fileSession is the gateway session of the CLI: the credential lives in
// the credential file, and invalidating the session deletes it
type fileSession struct {
	cfg *Config
}

func (s fileSession) Credential(context.Context) (*model.Credential, error) {
	return s.cfg.LoadCredential()
}

func (s fileSession) Invalidate(context.Context) error {
	return s.cfg.DeleteCredential()
}

// loginHint is the CLI's navigator: there is no login page to go to, so
// it tells the user how to sign in again
type loginHint struct {
	w io.Writer
}

func (n loginHint) Navigate(string) {
	_, _ = fmt.Fprintln(n.w, "Your session has expired. Run `scorekeeper login` to sign in again.")
}

// newClient creates a backend client that authenticates with the stored
// credential
func newClient(cfg *Config, stderr io.Writer) *backend.Client {
	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}

	gwCfg := gateway.DefaultConfig()
	gwCfg.BaseURL = cfg.BackendURL
	gwCfg.Timeout = cfg.Timeout
	gwCfg.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	return backend.New(gateway.New(gwCfg, fileSession{cfg: cfg}, loginHint{w: stderr}))
}
