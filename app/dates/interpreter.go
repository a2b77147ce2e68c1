package dates

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Window is the inclusive month-aligned date range used to admit or
// reject articles. Start is aligned to day-start, End to day-end.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window, inclusive at both
// ends. A nil timestamp is never inside the window.
func (w Window) Contains(t *time.Time) bool {
	if t == nil {
		return false
	}
	return !t.Before(w.Start) && !t.After(w.End)
}

// rule pairs a recognizer with an interpreter. Rules are evaluated in
// priority order; the first recognizer that matches wins. An interpreter
// may still reject its match (e.g. an unknown month name), in which case
// evaluation falls through to a nil result.
type rule struct {
	re        *regexp.Regexp
	interpret func(m []string, now time.Time) (time.Time, bool)
}

// Interpreter resolves free-form relative and absolute date strings into
// timestamps, and derives lookback windows from a months parameter.
type Interpreter struct {
	logger *slog.Logger
	now    func() time.Time
	rules  []rule
}

func NewInterpreter(logger *slog.Logger) *Interpreter {
	i := &Interpreter{
		logger: logger,
		now:    time.Now,
	}
	i.rules = []rule{
		{
			re: regexp.MustCompile(`(?i)^now`),
			interpret: func(_ []string, now time.Time) (time.Time, bool) {
				return now, true
			},
		},
		{
			re: regexp.MustCompile(`(?i)^yesterday`),
			interpret: func(_ []string, now time.Time) (time.Time, bool) {
				return dayStart(now.AddDate(0, 0, -1)), true
			},
		},
		{
			re: regexp.MustCompile(`(?i)^(\d+) min(?:s)? ago`),
			interpret: func(m []string, now time.Time) (time.Time, bool) {
				n, err := strconv.Atoi(m[1])
				if err != nil {
					return time.Time{}, false
				}
				return now.Add(-time.Duration(n) * time.Minute), true
			},
		},
		{
			re: regexp.MustCompile(`(?i)^(\d+) hour(?:s)? ago`),
			interpret: func(m []string, now time.Time) (time.Time, bool) {
				n, err := strconv.Atoi(m[1])
				if err != nil {
					return time.Time{}, false
				}
				return now.Add(-time.Duration(n) * time.Hour), true
			},
		},
		{
			re: regexp.MustCompile(`(?i)^([a-z]+) (\d{1,2}),? (\d{4})`),
			interpret: func(m []string, now time.Time) (time.Time, bool) {
				return calendarDate(m[1], m[2], m[3], now)
			},
		},
		{
			re: regexp.MustCompile(`(?i)^([a-z]+) (\d{1,2})`),
			interpret: func(m []string, now time.Time) (time.Time, bool) {
				return calendarDate(m[1], m[2], strconv.Itoa(now.Year()), now)
			},
		},
	}
	return i
}

// WithClock replaces the interpreter's time source. Relative dates and
// window computation resolve against the injected clock.
func (i *Interpreter) WithClock(now func() time.Time) *Interpreter {
	i.now = now
	return i
}

// Window derives the inclusive date range covering the last
// lookbackMonths calendar months, current month included. A value below
// 1 is corrected to 1 with a warning.
func (i *Interpreter) Window(lookbackMonths int) Window {
	if lookbackMonths <= 0 {
		i.logger.Warn("invalid number of months, using 1", "months", lookbackMonths)
		lookbackMonths = 1
	}

	now := i.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	return Window{
		Start: monthStart.AddDate(0, -(lookbackMonths - 1), 0),
		End:   monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond),
	}
}

// Parse resolves a human-readable date string against the rule list.
// Matching is case-insensitive and anchored at the start of the trimmed
// input. A nil result means no rule matched; that is not an error.
func (i *Interpreter) Parse(text string) *time.Time {
	trimmed := strings.TrimSpace(text)
	now := i.now()

	for _, r := range i.rules {
		m := r.re.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		if t, ok := r.interpret(m, now); ok {
			return &t
		}
	}

	i.logger.Warn("failed to parse date string, no matching pattern found", "text", text)
	return nil
}

func calendarDate(monthName, dayToken, yearToken string, now time.Time) (time.Time, bool) {
	month, ok := monthByName(monthName)
	if !ok {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(dayToken)
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(yearToken)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(year, month, day, 0, 0, 0, 0, now.Location()), true
}

// monthByName matches the full English month name used by the site,
// case-insensitively. Abbreviations do not match.
func monthByName(name string) (time.Month, bool) {
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(name, m.String()) {
			return m, true
		}
	}
	return 0, false
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
