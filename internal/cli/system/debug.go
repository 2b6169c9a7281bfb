package system

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/datebook/internal/cli"
	apperrors "github.com/julianstephens/datebook/internal/errors"
	"github.com/julianstephens/datebook/internal/storage"
)

type DebugCmd struct {
	Path      DebugPathCmd      `cmd:"" help:"Show the storage location."`
	DumpEvent DebugDumpEventCmd `cmd:"" help:"Dump one event as JSON."`
	DumpKey   DebugDumpKeyCmd   `cmd:"" help:"Dump a raw storage entry."`
}

type DebugPathCmd struct{}

func (cmd *DebugPathCmd) Run(ctx *cli.Context) error {
	out, err := json.MarshalIndent(map[string]string{
		"path":   ctx.Backend.GetConfigPath(),
		"config": ctx.ConfigPath,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(out))
	return nil
}

type DebugDumpEventCmd struct {
	ID string `arg:"" help:"ID of the event to dump."`
}

func (cmd *DebugDumpEventCmd) Run(ctx *cli.Context) error {
	ev, ok := ctx.Events.Get(cmd.ID)
	if !ok {
		return fmt.Errorf("event %s: %w", cmd.ID, apperrors.ErrNotFound)
	}

	out, err := json.MarshalIndent(ev, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	ctx.Println(string(out))
	return nil
}

type DebugDumpKeyCmd struct {
	Key string `arg:"" help:"Storage key, e.g. calendar_events."`
}

func (cmd *DebugDumpKeyCmd) Run(ctx *cli.Context) error {
	raw, err := ctx.Backend.Get(cmd.Key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return fmt.Errorf("no entry stored under %q", cmd.Key)
	}
	if err != nil {
		return fmt.Errorf("failed to read %q: %w", cmd.Key, err)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		// Not JSON; print as stored.
		ctx.Println(string(raw))
		return nil
	}
	ctx.Println(buf.String())
	return nil
}
