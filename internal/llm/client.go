package llm

import (
	"strings"

	"github.com/sashabaranov/go-openai"
)

type ClientConfig struct {
	APIKey     string
	APIType    string // "openai" or "azure"
	BaseURL    string
	APIVersion string
}

// NewClient builds the go-openai client shared by the embedder, the semantic
// oracle and the translator.
func NewClient(cfg ClientConfig) *openai.Client {
	var oc openai.ClientConfig
	if strings.EqualFold(cfg.APIType, "azure") {
		oc = openai.DefaultAzureConfig(cfg.APIKey, cfg.BaseURL)
		if cfg.APIVersion != "" {
			oc.APIVersion = cfg.APIVersion
		}
	} else {
		oc = openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
		}
	}
	return openai.NewClientWithConfig(oc)
}
