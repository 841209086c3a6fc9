package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"filippo.io/age"
	"github.com/dmitrijs2005/sealbox/internal/client/client"
	"github.com/dmitrijs2005/sealbox/internal/client/config"
	"github.com/dmitrijs2005/sealbox/internal/client/services"
	"github.com/dmitrijs2005/sealbox/internal/cryptox"
)

var (
	errEmptyInput  = errors.New("empty input")
	errMismatch    = errors.New("entries do not match")
	errNoIdentity  = errors.New("no identity found, run `sealbox keygen` first")
	errNotLoggedIn = errors.New("not logged in, run `sealbox login` first")
)

// dialClient is a test seam for connecting to the server.
var dialClient = func(addr string) (services.TokenClient, error) {
	return client.NewGRPCClient(addr)
}

// App carries the resolved settings of one CLI invocation.
type App struct {
	dir    string
	cfg    *config.Config
	out    io.Writer
	client services.TokenClient
}

func (a *App) connect() (services.TokenClient, error) {
	if a.client != nil {
		return a.client, nil
	}
	c, err := dialClient(a.cfg.ServerAddr)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", a.cfg.ServerAddr, err)
	}
	a.client = c
	return c, nil
}

func (a *App) close() {
	if a.client != nil {
		_ = a.client.Close()
		a.client = nil
	}
}

func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.cfg.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.cfg.RequestTimeout)
}

func (a *App) auth() (*services.AuthService, error) {
	c, err := a.connect()
	if err != nil {
		return nil, err
	}
	return services.NewAuthService(c, a.dir), nil
}

// session connects and restores the stored login.
func (a *App) session() (services.TokenClient, error) {
	auth, err := a.auth()
	if err != nil {
		return nil, err
	}
	if _, err := auth.Resume(); err != nil {
		if errors.Is(err, config.ErrNoSession) {
			return nil, errNotLoggedIn
		}
		return nil, err
	}
	return a.client, nil
}

func (a *App) publicKeyPath() string {
	return a.cfg.IdentityPath + ".pub"
}

func (a *App) publicKey() (string, error) {
	data, err := os.ReadFile(a.publicKeyPath())
	if errors.Is(err, os.ErrNotExist) {
		return "", errNoIdentity
	}
	if err != nil {
		return "", fmt.Errorf("reading public key: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// unlockIdentity prompts for the passphrase and opens the identity file.
func (a *App) unlockIdentity() (age.Identity, error) {
	data, err := os.ReadFile(a.cfg.IdentityPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, errNoIdentity
	}
	if err != nil {
		return nil, fmt.Errorf("reading identity: %w", err)
	}

	passphrase, err := GetPassword(a.out, "Identity passphrase: ")
	if err != nil {
		return nil, err
	}
	return cryptox.OpenIdentity(data, passphrase)
}
