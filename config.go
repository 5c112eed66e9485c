package headtable

import "log/slog"

var (
	// DefaultStructFieldNaming provides the default StructFieldNaming
	// used to look up cell values in struct data.
	// It uses "col" as column key tag, ignores "-" keyed fields,
	// and uses the field name for untagged fields.
	DefaultStructFieldNaming = StructFieldNaming{
		Tag:    "col",
		Ignore: "-",
	}

	// DefaultLogger is used by tables without a configured logger.
	// It discards all records.
	DefaultLogger = slog.New(slog.DiscardHandler)
)
