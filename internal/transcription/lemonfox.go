package transcription

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

const defaultLemonfoxURL = "https://api.lemonfox.ai/v1/audio/transcriptions"

// Lemonfox uploads audio to the Lemonfox transcription API and reads the VTT
// response back as plain text.
type Lemonfox struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func NewLemonfox(apiKey string) *Lemonfox {
	return &Lemonfox{
		apiKey:   apiKey,
		endpoint: defaultLemonfoxURL,
		client:   &http.Client{Timeout: 2 * time.Minute},
	}
}

// WithEndpoint points the client at another host, e.g. a test server.
func (l *Lemonfox) WithEndpoint(url string) *Lemonfox {
	cp := *l
	cp.endpoint = url
	return &cp
}

func (l *Lemonfox) Transcribe(ctx context.Context, audio Audio, locale string) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	filename := audio.Filename
	if filename == "" {
		filename = "speech.wav"
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("error creating form file: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(audio.Data)); err != nil {
		return "", fmt.Errorf("error copying file data: %w", err)
	}

	writer.WriteField("language", lemonfoxLanguage(locale))
	writer.WriteField("response_format", "vtt")
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("error closing form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.endpoint, body)
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+l.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, respBody)
	}

	cues, err := ParseVTT(string(respBody))
	if err != nil {
		return "", fmt.Errorf("parse transcription: %w", err)
	}
	return PlainText(cues), nil
}
