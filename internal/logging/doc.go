// Package logging provides structured JSON logging for groupspin sessions.
//
// A [Logger] wraps log/slog's JSON handler. File-backed loggers write to
// groupspin.log inside the configured directory through a [RotatingWriter],
// which renames the file to groupspin.log.1 (shifting older backups) once it
// passes the size limit and optionally gzips the rotated copy.
//
// Child loggers add context that the aggregator understands:
//
//	logger, err := logging.New(logging.Options{
//	    Dir:      dir,
//	    Level:    logging.LevelDebug,
//	    Rotation: logging.DefaultRotationConfig(),
//	})
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	sessLog := logger.WithSession(id).WithComponent("session")
//	sessLog.Info("participant assigned", "participant", "Ada", "group", 2)
//
// The interactive UI owns the terminal, so no logger writes to stderr unless
// the caller passes os.Stderr to [NewWriterLogger] explicitly.
//
// # Post-hoc analysis
//
// [AggregateLogs] reads the active file and every backup, [FilterLogs]
// narrows the result by level, time window, session, run, participant, or
// component, and [ExportLogEntries] writes it as JSON, text, CSV, or YAML.
package logging
