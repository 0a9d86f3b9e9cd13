// SPDX-License-Identifier: MIT

package jobs

import (
	"context"
	"fmt"
	"io"

	"github.com/google/renameio/v2"

	"github.com/mediaforge/rakugen/internal/log"
	"github.com/mediaforge/rakugen/internal/metrics"
)

// writeArtifact writes one artifact atomically: temp file, fsync, rename.
// A half-written artifact is never observable at path.
func writeArtifact(ctx context.Context, path, kind string, render func(io.Writer) error) error {
	logger := log.FromContext(ctx)

	pending, err := renameio.NewPendingFile(path)
	if err != nil {
		metrics.ArtifactWrites.WithLabelValues(kind, "error").Inc()
		return fmt.Errorf("create pending %s file: %w", kind, err)
	}
	defer func() {
		if cerr := pending.Cleanup(); cerr != nil {
			logger.Debug().Err(cerr).Str("path", path).Msg("cleanup pending file")
		}
	}()

	if err := render(pending); err != nil {
		metrics.ArtifactWrites.WithLabelValues(kind, "error").Inc()
		return fmt.Errorf("write %s data: %w", kind, err)
	}

	if err := pending.CloseAtomicallyReplace(); err != nil {
		metrics.ArtifactWrites.WithLabelValues(kind, "error").Inc()
		return fmt.Errorf("atomically replace %s file: %w", kind, err)
	}

	metrics.ArtifactWrites.WithLabelValues(kind, "ok").Inc()
	logger.Info().
		Str("event", "artifact.write").
		Str("artifact", kind).
		Str("path", path).
		Msg("artifact written")
	return nil
}
