package transcription

import (
	"testing"
	"time"
)

func TestParseVTT(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		want     int
		wantText string
		wantErr  bool
	}{
		{
			name: "basic vtt",
			content: `WEBVTT

00:00:01.000 --> 00:00:04.000
Hello, how are you

00:00:04.100 --> 00:00:08.000
Good morning`,
			want:     2,
			wantText: "Hello, how are you Good morning",
		},
		{
			name: "multi-line cue",
			content: `WEBVTT

00:00:01.000 --> 00:00:04.000
Hello, this is
a multi-line cue`,
			want:     1,
			wantText: "Hello, this is a multi-line cue",
		},
		{
			name:    "invalid header",
			content: "NOT A VTT FILE",
			wantErr: true,
		},
		{
			name: "empty lines between entries",
			content: `WEBVTT


00:00:01.000 --> 00:00:04.000
First entry


00:00:04.100 --> 00:00:08.000
Second entry`,
			want:     2,
			wantText: "First entry Second entry",
		},
		{
			name:     "escaped newlines and identifiers",
			content:  `"WEBVTT\n\n1\n00:01.000 --> 00:02.500 align:start\nمرحبا\n\nNOTE skipped\n"`,
			want:     1,
			wantText: "مرحبا",
		},
		{
			name:     "header only",
			content:  "WEBVTT\n\n",
			want:     0,
			wantText: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cues, err := ParseVTT(tt.content)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseVTT() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if len(cues) != tt.want {
				t.Errorf("ParseVTT() got %d cues, want %d", len(cues), tt.want)
			}
			if got := PlainText(cues); got != tt.wantText {
				t.Errorf("PlainText() = %q, want %q", got, tt.wantText)
			}
		})
	}
}

func TestParseVTTTimestamp(t *testing.T) {
	tests := []struct {
		name      string
		timestamp string
		want      time.Duration
		wantErr   bool
	}{
		{
			name:      "zero timestamp",
			timestamp: "00:00:00.000",
			want:      0,
		},
		{
			name:      "one second",
			timestamp: "00:00:01.000",
			want:      time.Second,
		},
		{
			name:      "with hours",
			timestamp: "01:00:00.000",
			want:      time.Hour,
		},
		{
			name:      "short form",
			timestamp: "02:03.500",
			want:      2*time.Minute + 3*time.Second + 500*time.Millisecond,
		},
		{
			name:      "complex time",
			timestamp: "01:23:45.678",
			want:      1*time.Hour + 23*time.Minute + 45*time.Second + 678*time.Millisecond,
		},
		{
			name:      "invalid format",
			timestamp: "1:23:45.678",
			wantErr:   true,
		},
		{
			name:      "missing milliseconds",
			timestamp: "00:00:01",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVTTTimestamp(tt.timestamp)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseVTTTimestamp() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseVTTTimestamp() = %v, want %v", got, tt.want)
			}
		})
	}
}
