package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"photowall/internal/config"
	"photowall/internal/photo"
	"photowall/internal/session"
)

// importedSession is the state scan and export share after reading input.
type importedSession struct {
	cfg     *config.Config
	session *session.Session
	result  photo.ImportResult
	logger  *slog.Logger
}

// importPhotos loads the configuration snapshot, reads every path or glob in
// args and imports the records into a fresh session.
func importPhotos(cmd *cobra.Command, ctx *commandContext, flags *pipelineFlags, args []string) (*importedSession, error) {
	base, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	cfg, opts, err := flags.snapshot(cmd, base)
	if err != nil {
		return nil, err
	}
	logger, err := ctx.logger(cmd, cfg)
	if err != nil {
		return nil, err
	}

	records, err := photo.LoadRecords(args)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("no files matched the given paths")
	}

	sess, err := session.New(opts, session.Dependencies{Logger: logger})
	if err != nil {
		return nil, err
	}

	bar := newProgressReporter(cmd.ErrOrStderr(), len(records), "Importing")
	result, err := sess.Import(cmd.Context(), records, photo.ImageDecoder{}, func(done, total int) {
		bar.set(done)
	})
	bar.finish()
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}

	return &importedSession{cfg: cfg, session: sess, result: result, logger: logger}, nil
}
