package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/ytget/magic-animator/internal/generate"
)

// Backend names accepted in Config
const (
	BackendGemini = "gemini"
	BackendVertex = "vertex"
)

// Defaults applied when a Config field is left empty
const (
	DefaultTimeout     = 2 * time.Minute
	DefaultAspectRatio = "1:1"
	DefaultImageMIME   = "image/png"
	DefaultLocation    = "us-central1"
)

var (
	// ErrMissingAPIKey is returned when the Gemini API backend has no key configured
	ErrMissingAPIKey = errors.New("API key is not configured; set GEMINI_API_KEY or enter a key in Settings")
	// ErrMissingProject is returned when the Vertex AI backend has no project configured
	ErrMissingProject = errors.New("Vertex AI project is not configured")
)

// Config is the explicit client configuration; it is never read from globals
type Config struct {
	APIKey          string
	Backend         string
	Project         string
	Location        string
	ImagesPerMinute int // 0 disables rate limiting
	Timeout         time.Duration
}

// Client implements generate.TextGenerator and generate.ImageGenerator on top of genai
type Client struct {
	mu      sync.Mutex
	cfg     Config
	client  *genai.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

var (
	_ generate.TextGenerator  = (*Client)(nil)
	_ generate.ImageGenerator = (*Client)(nil)
)

// NewClient creates a client; the underlying SDK client is built on first use
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{logger: logger.With("component", "gemini")}
	c.Configure(cfg)
	return c
}

// Configure replaces the configuration; the next call rebuilds the SDK client
func (c *Client) Configure(cfg Config) {
	cfg = cfg.withDefaults()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = cfg
	c.client = nil
	c.limiter = newLimiter(cfg.ImagesPerMinute)
}

// Config returns the active configuration
func (c *Client) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// ExpandPrompt issues one text generation call and returns the model's text
func (c *Client) ExpandPrompt(ctx context.Context, req generate.TextRequest) (string, error) {
	client, cfg, _, err := c.acquire(ctx)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(req.Temperature),
	}
	if req.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}

	start := time.Now()
	resp, err := client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Input), config)
	if err != nil {
		return "", err
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("model %s returned an empty expansion", req.Model)
	}
	c.logger.Debug("prompt expanded", "model", req.Model, "chars", len(text), "elapsed", time.Since(start))
	return text, nil
}

// GenerateImage issues one image generation call; a nil result means the model returned no image
func (c *Client) GenerateImage(ctx context.Context, req generate.ImageRequest) (*generate.ImageResult, error) {
	client, cfg, limiter, err := c.acquire(ctx)
	if err != nil {
		return nil, err
	}

	if err := limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	count := req.Count
	if count <= 0 {
		count = 1
	}
	aspect := req.AspectRatio
	if aspect == "" {
		aspect = DefaultAspectRatio
	}

	config := &genai.GenerateImagesConfig{
		NumberOfImages: int32(count),
		AspectRatio:    aspect,
		OutputMIMEType: DefaultImageMIME,
	}
	// The Gemini API rejects a seed; only Vertex AI honours it.
	if cfg.Backend == BackendVertex {
		config.Seed = genai.Ptr(req.Seed)
	}

	start := time.Now()
	resp, err := client.Models.GenerateImages(ctx, req.Model, req.Prompt, config)
	if err != nil {
		return nil, err
	}

	for _, generated := range resp.GeneratedImages {
		if generated == nil || generated.Image == nil || len(generated.Image.ImageBytes) == 0 {
			if generated != nil && generated.RAIFilteredReason != "" {
				c.logger.Warn("image filtered", "model", req.Model, "reason", generated.RAIFilteredReason)
			}
			continue
		}
		mimeType := generated.Image.MIMEType
		if mimeType == "" {
			mimeType = DefaultImageMIME
		}
		c.logger.Debug("image generated", "model", req.Model, "bytes", len(generated.Image.ImageBytes), "elapsed", time.Since(start))
		return &generate.ImageResult{Data: generated.Image.ImageBytes, MIMEType: mimeType, Seed: req.Seed}, nil
	}

	return nil, nil
}

// acquire returns the SDK client, building it on first use
func (c *Client) acquire(ctx context.Context) (*genai.Client, Config, *rate.Limiter, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		return c.client, c.cfg, c.limiter, nil
	}

	clientConfig, err := c.cfg.clientConfig()
	if err != nil {
		return nil, c.cfg, c.limiter, err
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, c.cfg, c.limiter, fmt.Errorf("create genai client: %w", err)
	}
	c.logger.Info("genai client ready", "backend", c.cfg.Backend)
	c.client = client
	return client, c.cfg, c.limiter, nil
}

func (cfg Config) withDefaults() Config {
	if cfg.Backend == "" {
		cfg.Backend = BackendGemini
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Backend == BackendVertex && cfg.Location == "" {
		cfg.Location = DefaultLocation
	}
	if cfg.ImagesPerMinute < 0 {
		cfg.ImagesPerMinute = 0
	}
	return cfg
}

func (cfg Config) clientConfig() (*genai.ClientConfig, error) {
	switch cfg.Backend {
	case BackendVertex:
		if cfg.Project == "" {
			return nil, ErrMissingProject
		}
		return &genai.ClientConfig{
			Project:  cfg.Project,
			Location: cfg.Location,
			Backend:  genai.BackendVertexAI,
		}, nil
	case BackendGemini:
		if cfg.APIKey == "" {
			return nil, ErrMissingAPIKey
		}
		return &genai.ClientConfig{
			APIKey:  cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		}, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func newLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
}
