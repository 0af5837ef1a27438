package analyst

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"cortex-analyst-be/internal/entity"
	"cortex-analyst-be/internal/pkg/logger"
	"cortex-analyst-be/pkg/content"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	DefaultEndpointPath = "/api/v2/cortex/analyst/message"
	DefaultTimeout      = 30 * time.Second
)

type Config struct {
	BaseURL      string
	EndpointPath string
	Token        string
	TokenType    string
	Timeout      time.Duration
}

// Error is a failed analyst call. Status is 0 for transport and parse failures.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("analyst request failed: %s", e.Detail)
	}
	return fmt.Sprintf("analyst API error %d: %s", e.Status, e.Detail)
}

// Answer is a successfully parsed analyst response
type Answer struct {
	RequestID string
	Blocks    []content.Block
	// Failures lists the blocks that could not be classified; they appear as Opaque in Blocks
	Failures []error
	Warnings []string
	// Raw is the full response body as received
	Raw     json.RawMessage
	Elapsed time.Duration
}

// ElapsedMs is the wall-clock round trip in whole milliseconds
func (a *Answer) ElapsedMs() int64 {
	return a.Elapsed.Milliseconds()
}

// --- Request/Response structs (Internal to this package) ---

type requestBody struct {
	Messages          []requestMessage `json:"messages"`
	SemanticModelFile string           `json:"semantic_model_file"`
}

type requestMessage struct {
	Role    string           `json:"role"`
	Content []requestContent `json:"content"`
}

type requestContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type responseBody struct {
	RequestID string `json:"request_id"`
	Message   *struct {
		Role    string            `json:"role"`
		Content []json.RawMessage `json:"content"`
	} `json:"message"`
	Warnings []struct {
		Message string `json:"message"`
	} `json:"warnings"`
}

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Client calls the analyst message endpoint. It never retries.
type Client struct {
	http     *resty.Client
	endpoint string
	logger   logger.ILogger
}

func NewClient(cfg Config, log logger.ILogger) *Client {
	if cfg.EndpointPath == "" {
		cfg.EndpointPath = DefaultEndpointPath
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimRight(cfg.BaseURL, "/"))
	client.SetTimeout(cfg.Timeout)
	client.SetRetryCount(0)
	client.SetHeader("Accept", "application/json")
	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
		client.SetHeader("X-Snowflake-Authorization-Token-Type", cfg.TokenType)
	}

	return &Client{
		http:     client,
		endpoint: cfg.EndpointPath,
		logger:   log,
	}
}

// SemanticModelFile builds the fully-qualified stage locator of a semantic model file
func SemanticModelFile(app *entity.App, model *entity.SemanticModel) string {
	return fmt.Sprintf("@%s.%s.%s/%s", app.Database, app.Schema, app.Stage, model.File)
}

// Ask sends a single-turn question for the given semantic model and classifies the answer
func (c *Client) Ask(ctx context.Context, prompt string, app *entity.App, model *entity.SemanticModel) (*Answer, error) {
	modelFile := SemanticModelFile(app, model)

	ctx, span := otel.Tracer("cortex-analyst-be/analyst").Start(ctx, "analyst.ask")
	defer span.End()
	span.SetAttributes(
		attribute.Int("analyst.app_id", app.Id),
		attribute.String("analyst.semantic_model_file", modelFile),
	)

	body := requestBody{
		Messages: []requestMessage{{
			Role:    string(content.RoleUser),
			Content: []requestContent{{Type: string(content.KindText), Text: prompt}},
		}},
		SemanticModelFile: modelFile,
	}

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(c.endpoint)
	elapsed := time.Since(start)

	if err != nil {
		c.logger.Error("ANALYST", "Analyst request failed", map[string]interface{}{
			"error":      err.Error(),
			"model_file": modelFile,
			"elapsed_ms": elapsed.Milliseconds(),
		})
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport")
		return nil, &Error{Detail: err.Error()}
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode()))

	if resp.StatusCode() >= 400 {
		detail := errorDetail(resp.Body())
		c.logger.Warn("ANALYST", "Analyst API returned an error", map[string]interface{}{
			"status":     resp.StatusCode(),
			"detail":     detail,
			"model_file": modelFile,
		})
		span.SetStatus(codes.Error, "api error")
		return nil, &Error{Status: resp.StatusCode(), Detail: detail}
	}

	var parsed responseBody
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		c.logger.Error("ANALYST", "Failed to parse analyst response", map[string]interface{}{
			"error": err.Error(),
		})
		span.SetStatus(codes.Error, "parse")
		return nil, &Error{Detail: fmt.Sprintf("invalid response body: %v", err)}
	}
	if parsed.Message == nil {
		span.SetStatus(codes.Error, "parse")
		return nil, &Error{Detail: "invalid response body: missing message"}
	}

	blocks, failures := content.ClassifyAll(parsed.Message.Content)
	for _, f := range failures {
		c.logger.Warn("ANALYST", "Content block classification failed", map[string]interface{}{
			"error":      f.Error(),
			"request_id": parsed.RequestID,
		})
	}

	answer := &Answer{
		RequestID: parsed.RequestID,
		Blocks:    blocks,
		Failures:  failures,
		Raw:       json.RawMessage(resp.Body()),
		Elapsed:   elapsed,
	}
	for _, w := range parsed.Warnings {
		answer.Warnings = append(answer.Warnings, w.Message)
	}

	c.logger.Info("ANALYST", "Analyst answer received", map[string]interface{}{
		"request_id": parsed.RequestID,
		"blocks":     len(blocks),
		"elapsed_ms": answer.ElapsedMs(),
		"model_file": modelFile,
	})

	return answer, nil
}

func errorDetail(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Message != "" {
		return eb.Message
	}
	detail := strings.TrimSpace(string(body))
	if detail == "" {
		return "no details"
	}
	return detail
}
