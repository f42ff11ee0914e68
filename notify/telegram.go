package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"restaurant-api/models"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const DefaultAPIURL = "https://api.telegram.org"

var (
	ErrNotConfigured = errors.New("telegram bot token or chat id missing")
	ErrRejected      = errors.New("telegram rejected the request")
)

// SettingsSource yields the credentials to use for the next call.
type SettingsSource interface {
	Settings(ctx context.Context) models.TelegramSettings
}

type Config struct {
	APIURL string
	// Zero leaves the HTTP client without a timeout.
	Timeout time.Duration
	// The breaker opens after this many consecutive failed calls.
	MaxFailures  uint32
	OpenDuration time.Duration
}

// Dispatcher sends orders to the restaurant's Telegram chat. Each send is a
// single HTTP call; there are no retries. While the breaker is open calls
// fail immediately.
type Dispatcher struct {
	settings SettingsSource
	client   *http.Client
	apiURL   string
	breaker  *gobreaker.CircuitBreaker[bool]
	logger   *zap.Logger
}

func NewDispatcher(settings SettingsSource, cfg Config, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	if cfg.OpenDuration <= 0 {
		cfg.OpenDuration = 30 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[bool](gobreaker.Settings{
		Name:    "telegram",
		Timeout: cfg.OpenDuration,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("name", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})

	return &Dispatcher{
		settings: settings,
		client:   &http.Client{Timeout: cfg.Timeout},
		apiURL:   strings.TrimRight(cfg.APIURL, "/"),
		breaker:  breaker,
		logger:   logger,
	}
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// SendOrder reports whether Telegram accepted the order message.
func (d *Dispatcher) SendOrder(ctx context.Context, order models.Order) bool {
	if err := d.Send(ctx, FormatOrderMessage(order)); err != nil {
		d.logger.Error("failed to send order to telegram", zap.String("order_id", order.ID), zap.Error(err))
		return false
	}
	return true
}

// Send posts text to the configured chat.
func (d *Dispatcher) Send(ctx context.Context, text string) error {
	st := d.settings.Settings(ctx)
	if st.BotToken == "" || st.ChatID == "" {
		return ErrNotConfigured
	}

	body, err := json.Marshal(sendMessageRequest{ChatID: st.ChatID, Text: text, ParseMode: "HTML"})
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	_, err = d.breaker.Execute(func() (bool, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.methodURL(st.BotToken, "sendMessage"), bytes.NewReader(body))
		if err != nil {
			return false, err
		}
		req.Header.Set("Content-Type", "application/json")
		return d.do(req)
	})
	return err
}

// TestConnection checks the current token with getMe.
func (d *Dispatcher) TestConnection(ctx context.Context) bool {
	st := d.settings.Settings(ctx)
	if st.BotToken == "" {
		d.logger.Warn("telegram connection test skipped", zap.Error(ErrNotConfigured))
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.methodURL(st.BotToken, "getMe"), nil)
	if err != nil {
		return false
	}
	if _, err := d.do(req); err != nil {
		d.logger.Warn("telegram connection test failed", zap.Error(err))
		return false
	}
	return true
}

func (d *Dispatcher) do(req *http.Request) (bool, error) {
	resp, err := d.client.Do(req)
	if err != nil {
		// the request URL carries the bot token
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return false, fmt.Errorf("telegram %s request: %w", req.Method, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return false, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, fmt.Errorf("%w: http status %d", ErrRejected, resp.StatusCode)
	}
	var out apiResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	if !out.OK {
		return false, fmt.Errorf("%w: %s", ErrRejected, out.Description)
	}
	return true, nil
}

func (d *Dispatcher) methodURL(token, method string) string {
	return d.apiURL + "/bot" + token + "/" + method
}
