package crawler

import "log/slog"

// Recoverable runs a named operation with exactly one retry. Between
// attempts it invokes Clear, which dismisses a known interstitial
// obstruction; Clear failures are logged and swallowed since the
// obstruction may simply not be present. A second operation failure is
// returned to the caller.
type Recoverable struct {
	Name   string
	Op     func() error
	Clear  func() error
	Logger *slog.Logger
}

func (r *Recoverable) Run() error {
	err := r.Op()
	if err == nil {
		return nil
	}

	r.Logger.Warn("failed to complete operation", "name", r.Name, "error", err)
	if clearErr := r.Clear(); clearErr != nil {
		r.Logger.Error("failed to clear obstruction", "name", r.Name, "error", clearErr)
	}

	if err := r.Op(); err != nil {
		r.Logger.Error("retry failed", "name", r.Name, "error", err)
		return err
	}
	return nil
}
