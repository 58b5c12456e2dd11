package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/de-tools/finance-atlas/pkg/models/domain"
	"github.com/de-tools/finance-atlas/pkg/runtime/app"
	"github.com/spf13/cobra"
)

// AppProvider wires the services for a command. requireBoards is set by commands that read
// the sales boards.
type AppProvider func(ctx context.Context, requireBoards bool) (*app.App, error)

type Reporter interface {
	Handle(report *domain.Report) error
}

// ReporterFactory returns the reporter for an output format.
type ReporterFactory func(format string, w io.Writer) (Reporter, error)

const (
	FormatText  = "text"
	FormatTable = "table"
	FormatJSON  = "json"
)

func withApp(cmd *cobra.Command, provider AppProvider, requireBoards bool, fn func(a *app.App) error) error {
	a, err := provider(cmd.Context(), requireBoards)
	if err != nil {
		return err
	}
	defer func() {
		_ = a.Close()
	}()
	return fn(a)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
