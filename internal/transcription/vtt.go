package transcription

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Cue is one timed caption block.
type Cue struct {
	Number int
	Start  time.Duration
	End    time.Duration
	Text   string
}

// ParseVTT parses WebVTT content into cues. Blocks without a timing line
// (NOTE, STYLE, identifiers alone) are skipped.
func ParseVTT(content string) ([]Cue, error) {
	content = strings.Trim(content, "\"")

	// Some providers return the body JSON-escaped.
	if strings.Contains(content, "\\n") {
		content = strings.ReplaceAll(content, "\\n", "\n")
	}
	content = strings.ReplaceAll(content, "\r\n", "\n")

	if !strings.HasPrefix(content, "WEBVTT") {
		return nil, fmt.Errorf("invalid VTT format: missing WEBVTT header")
	}

	cues := []Cue{}
	blocks := strings.Split(content, "\n\n")
	for _, block := range blocks[1:] {
		lines := strings.Split(strings.Trim(block, "\n"), "\n")
		if len(lines) < 2 {
			continue
		}

		// An optional cue identifier may precede the timing line.
		timing := 0
		if !strings.Contains(lines[0], "-->") {
			timing = 1
		}
		if timing >= len(lines)-1 {
			continue
		}
		timestamps := strings.Split(lines[timing], " --> ")
		if len(timestamps) != 2 {
			continue
		}

		start, err := parseVTTTimestamp(strings.TrimSpace(timestamps[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid start timestamp: %w", err)
		}
		// Cue settings may follow the end timestamp.
		endField := strings.Fields(timestamps[1])
		if len(endField) == 0 {
			return nil, fmt.Errorf("invalid end timestamp: empty")
		}
		end, err := parseVTTTimestamp(endField[0])
		if err != nil {
			return nil, fmt.Errorf("invalid end timestamp: %w", err)
		}

		cues = append(cues, Cue{
			Number: len(cues) + 1,
			Start:  start,
			End:    end,
			Text:   strings.Join(lines[timing+1:], " "),
		})
	}

	return cues, nil
}

// PlainText joins cue texts with single spaces.
func PlainText(cues []Cue) string {
	parts := make([]string, 0, len(cues))
	for _, c := range cues {
		if t := strings.TrimSpace(c.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// parseVTTTimestamp accepts HH:MM:SS.mmm and the short MM:SS.mmm form.
func parseVTTTimestamp(timestamp string) (time.Duration, error) {
	if !strings.Contains(timestamp, ".") {
		return 0, fmt.Errorf("invalid timestamp format: missing milliseconds")
	}

	parts := strings.Split(timestamp, ":")
	var hours, minutes int
	var err error
	switch len(parts) {
	case 3:
		if len(parts[0]) < 2 {
			return 0, fmt.Errorf("invalid timestamp format: expected HH:MM:SS.mmm")
		}
		if hours, err = strconv.Atoi(parts[0]); err != nil {
			return 0, fmt.Errorf("invalid hours: %w", err)
		}
		parts = parts[1:]
	case 2:
	default:
		return 0, fmt.Errorf("invalid timestamp format: expected HH:MM:SS.mmm")
	}
	if len(parts[0]) != 2 {
		return 0, fmt.Errorf("invalid timestamp format: expected two-digit minutes")
	}
	if minutes, err = strconv.Atoi(parts[0]); err != nil {
		return 0, fmt.Errorf("invalid minutes: %w", err)
	}

	secondParts := strings.Split(parts[1], ".")
	if len(secondParts) != 2 {
		return 0, fmt.Errorf("invalid seconds format: missing milliseconds")
	}
	seconds, err := strconv.Atoi(secondParts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid seconds: %w", err)
	}
	milliseconds, err := strconv.Atoi(secondParts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid milliseconds: %w", err)
	}

	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(milliseconds)*time.Millisecond, nil
}
