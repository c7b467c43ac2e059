package analyzer

// AnalyzeOption is a functional option for customizing one analysis run.
type AnalyzeOption func(*analyzeOptions)

// analyzeOptions holds optional configuration for an analysis run.
type analyzeOptions struct {
	strict             bool
	tablePrefix        string
	ignoreDisplayWidth bool
	fingerprint        bool
}

// WithStrict makes a CREATE TABLE statement the grammar does not accept a
// fatal syntax error instead of a skipped statement.
//
// Example:
//
//	report, err := a.Analyze(ctx, ddl, WithStrict(true))
func WithStrict(strict bool) AnalyzeOption {
	return func(opts *analyzeOptions) {
		opts.strict = strict
	}
}

// WithTablePrefix overrides the table name prefix of the profile. An empty
// prefix keeps table names as written.
//
// Example:
//
//	report, err := a.Analyze(ctx, ddl, WithTablePrefix("t_"))
func WithTablePrefix(prefix string) AnalyzeOption {
	return func(opts *analyzeOptions) {
		opts.tablePrefix = prefix
	}
}

// WithIgnoreDisplayWidth drops integer display widths, so that int(11)
// resolves like int.
func WithIgnoreDisplayWidth(ignore bool) AnalyzeOption {
	return func(opts *analyzeOptions) {
		opts.ignoreDisplayWidth = ignore
	}
}

// WithFingerprint toggles the report fingerprint. It is on by default.
func WithFingerprint(enabled bool) AnalyzeOption {
	return func(opts *analyzeOptions) {
		opts.fingerprint = enabled
	}
}
