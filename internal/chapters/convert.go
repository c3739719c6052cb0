package chapters

import (
	"context"
	"log/slog"

	"chaptermux/internal/logging"
)

// Conversion describes the outcome of reading and stitching a chapter file.
type Conversion struct {
	Format     Format
	Policy     Policy
	Boundaries []Boundary
}

// Converter turns chapter files into ffmetadata chapter blocks.
type Converter struct {
	Format Format
	Policy Policy
	logger *slog.Logger
}

// NewConverter constructs a converter. Zero format and policy values mean auto.
func NewConverter(logger *slog.Logger, format Format, policy Policy) *Converter {
	return &Converter{
		Format: format,
		Policy: policy,
		logger: logging.NewComponentLogger(logger, "chapters"),
	}
}

// Load reads and stitches the chapter file without writing anything.
func (c *Converter) Load(ctx context.Context, sourcePath string) (Conversion, error) {
	records, format, err := ReadFile(sourcePath, c.Format)
	if err != nil {
		return Conversion{}, err
	}
	policy := c.Policy.Resolve(format)
	boundaries, err := Build(records, policy)
	if err != nil {
		return Conversion{}, err
	}

	logger := logging.WithContext(ctx, c.logger)
	logger.Debug("chapter list stitched",
		logging.String("source", sourcePath),
		logging.String("format", string(format)),
		logging.String("policy", string(policy)),
		logging.Int("chapters", len(boundaries)),
	)
	return Conversion{Format: format, Policy: policy, Boundaries: boundaries}, nil
}

// Convert reads sourcePath, stitches it, and appends the chapter blocks to the
// metadata document at documentPath. Nothing is written unless every record
// converted cleanly.
func (c *Converter) Convert(ctx context.Context, sourcePath, documentPath string) (Conversion, error) {
	conv, err := c.Load(ctx, sourcePath)
	if err != nil {
		return Conversion{}, err
	}
	if err := AppendFile(documentPath, conv.Boundaries); err != nil {
		return Conversion{}, err
	}

	logging.WithContext(ctx, c.logger).Info("chapters added to metadata document",
		logging.String(logging.FieldEventType, "chapters_appended"),
		logging.String("document", documentPath),
		logging.Int("chapters", len(conv.Boundaries)),
		logging.String("policy", string(conv.Policy)),
	)
	return conv, nil
}
