package inspector

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/smartap-inspector/internal/errfeed"
	"github.com/muurk/smartap-inspector/internal/logging"
)

// Run starts the inspector on the terminal and blocks until the user
// quits or ctx ends. When feedAddr is set, an error feed server runs for
// the lifetime of the program.
func Run(ctx context.Context, opts Options, feedAddr string) error {
	app := NewApp(ctx, opts)
	defer app.Close()

	program := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	app.SetSender(program.Send)

	if feedAddr != "" {
		feed := errfeed.New(errfeed.Config{Addr: feedAddr, Metrics: opts.Metrics}, func(s errfeed.Signal) {
			program.Send(SignalMsg{Signal: s})
		})
		if err := feed.Start(); err != nil {
			return err
		}
		app.SetFeed(feed)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := feed.Shutdown(shutdownCtx); err != nil {
				logging.Warn("Error feed shutdown", zap.Error(err))
			}
		}()
	}

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("inspector error: %w", err)
	}
	return nil
}
