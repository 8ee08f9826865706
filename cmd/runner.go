package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotrec/internal/repositories"
	"github.com/desertthunder/spotrec/internal/services"
	"github.com/desertthunder/spotrec/internal/shared"
	"github.com/desertthunder/spotrec/internal/ui"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	palette    *ui.Palette

	client *services.SpotifyClient
	db     *sql.DB
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Config.API.Timeout()}
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		palette:    ui.Default,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, searchCommand, artistCommand, recommendCommand, playlistCommand, discoverCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// spotify authenticates once and returns the shared client.
//
// The session is never refreshed; a run that outlives the token fails with [shared.ErrTokenExpired].
func (r *Runner) spotify(ctx context.Context) (*services.SpotifyClient, error) {
	if r.client != nil {
		return r.client, nil
	}

	if !r.config.HasCredentials() {
		return nil, fmt.Errorf("%w: set credentials.spotify in %s or export CLIENT_ID and CLIENT_SECRET", shared.ErrMissingCredentials, r.configLabel())
	}

	auth, err := services.NewAuthenticator(
		r.config.Credentials.Spotify.ClientID,
		r.config.Credentials.Spotify.ClientSecret,
		r.config.API.TokenURL,
		r.httpClient,
	)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("requesting access token")
	session, err := auth.Authenticate(ctx)
	if err != nil {
		return nil, err
	}

	client, err := services.NewSpotifyClient(services.ClientOpts{
		Session:    session,
		HTTPClient: r.httpClient,
		BaseURL:    r.config.API.BaseURL,
		Market:     r.config.API.Market,
		Logger:     r.logger,
	})
	if err != nil {
		return nil, err
	}

	r.client = client
	return client, nil
}

// ledger opens the publish ledger on first use.
func (r *Runner) ledger() (*repositories.PublishRepository, error) {
	if r.db == nil {
		db, err := shared.OpenLedger(r.config.Database)
		if err != nil {
			return nil, err
		}
		r.db = db
	}
	return repositories.NewPublishRepository(r.db), nil
}

// Close releases the ledger connection, if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

func (r *Runner) configLabel() string {
	if r.configPath == "" {
		return "config.toml"
	}
	return r.configPath
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// writeLines writes each line followed by a newline and stops at the first write error.
func (r *Runner) writeLines(lines ...string) error {
	for _, line := range lines {
		if err := r.writePlain("%s\n", line); err != nil {
			return err
		}
	}
	return nil
}

// errorHint suggests a next step for errors the user can act on.
func errorHint(err error) string {
	switch {
	case errors.Is(err, shared.ErrMissingCredentials):
		return "run 'spotrec setup config' or export CLIENT_ID and CLIENT_SECRET"
	case errors.Is(err, shared.ErrPartialPublish):
		return "see 'spotrec playlist history --status partial'"
	case shared.IsRetryable(err):
		return "temporary failure, try again later"
	default:
		return ""
	}
}
