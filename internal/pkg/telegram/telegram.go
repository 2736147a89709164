package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/faceid-bridge-go/internal/config"
)

// Client ships bridge log summaries to a Telegram chat via the bot API.
type Client interface {
	SendMessage(ctx context.Context, text string) error
	Configured() bool
}

type clientImpl struct {
	cfg        config.TelegramConfig
	httpClient *http.Client
}

func NewClient(cfg config.TelegramConfig) Client {
	return &clientImpl{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *clientImpl) Configured() bool {
	return c.cfg.BotToken != "" && c.cfg.ChatID != ""
}

func (c *clientImpl) SendMessage(ctx context.Context, text string) error {
	// Skip sending if the bot is not configured
	if !c.Configured() {
		slog.Warn("Telegram not configured, skipping message send")
		return nil
	}

	payload, err := json.Marshal(map[string]string{
		"chat_id": c.cfg.ChatID,
		"text":    text,
	})
	if err != nil {
		return fmt.Errorf("encode telegram payload: %w", err)
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", c.cfg.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram send failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}
	return nil
}
