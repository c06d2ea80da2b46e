package handlers

type TranslateRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

type TranslateResponse struct {
	Text    string   `json:"text"`
	English string   `json:"english"`
	Clips   []string `json:"clips"`
	Missing []string `json:"missing"`
	Video   string   `json:"video,omitempty"`
}

type ClipsResponse struct {
	Model  string   `json:"model"`
	Count  int      `json:"count"`
	Labels []string `json:"labels"`
}
