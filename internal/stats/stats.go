// Package stats summarizes session history.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/mugshot/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Summary aggregates a list of sessions.
type Summary struct {
	Sessions  int
	Total     int
	Best      int
	Average   float64
	Correct   int
	Incorrect int
	Accuracy  float64
}

// Summarize aggregates sessions.
func Summarize(sessions []model.SessionRecord) Summary {
	var s Summary
	s.Sessions = len(sessions)
	for _, rec := range sessions {
		s.Total += rec.Points
		if rec.Points > s.Best {
			s.Best = rec.Points
		}
		s.Correct += rec.Correct
		s.Incorrect += rec.Incorrect
	}
	if s.Sessions > 0 {
		s.Average = float64(s.Total) / float64(s.Sessions)
	}
	if den := s.Correct + s.Incorrect; den > 0 {
		s.Accuracy = float64(s.Correct) / float64(den)
	}
	return s
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary block for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionRecord) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	s := Summarize(sessions)
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", s.Sessions),
		fmt.Sprintf("Total points: %d", s.Total),
		fmt.Sprintf("Best session: %d", s.Best),
		fmt.Sprintf("Avg points: %.1f", s.Average),
		fmt.Sprintf("Accuracy: %.1f%%", s.Accuracy*100),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurve prints a moving-average sparkline of session points.
func RenderCurve(w io.Writer, sessions []model.SessionRecord, window int) error {
	if len(sessions) == 0 {
		return nil
	}
	values := make([]float64, len(sessions))
	for i, rec := range sessions {
		values[i] = float64(rec.Points)
	}
	values = MovingAverage(values, window)
	if _, err := fmt.Fprintf(w, "Points trend (window %d)\n", window); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "[%s]\n\n", Sparkline(values)); err != nil {
		return err
	}
	return nil
}

// RenderSessions prints a table of sessions, newest last.
func RenderSessions(w io.Writer, sessions []model.SessionRecord) error {
	if len(sessions) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(sessions))
	for _, rec := range sessions {
		rows = append(rows, []string{
			rec.SessionID,
			rec.EndedAt.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", rec.Points),
			fmt.Sprintf("%d", rec.Correct),
			fmt.Sprintf("%d", rec.Incorrect),
			rec.EndedAt.Sub(rec.StartedAt).Round(time.Second).String(),
		})
	}
	for _, line := range renderTable(sessionColumns, rows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
