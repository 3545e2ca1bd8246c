package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/mohameodo/nova-v5/internal/model"
)

// OfflineProvider is the local fallback: it makes sure the model
// weights are cached on disk, then serves completions through the
// local model runtime. Initialization happens lazily on the first
// call and only once.
type OfflineProvider struct {
	runtime    *OllamaProvider
	modelName  string
	modelURL   string
	cacheDir   string
	httpClient *http.Client

	mu    sync.Mutex
	ready bool
}

func NewOfflineProvider(runtime *OllamaProvider, modelName, modelURL, cacheDir string, httpClient *http.Client) *OfflineProvider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OfflineProvider{
		runtime:    runtime,
		modelName:  modelName,
		modelURL:   modelURL,
		cacheDir:   cacheDir,
		httpClient: httpClient,
	}
}

// Warmup fetches the model weights ahead of the first request. Safe
// to call concurrently with SendMessage.
func (p *OfflineProvider) Warmup(ctx context.Context) error {
	return p.ensureReady(ctx)
}

func (p *OfflineProvider) SendMessage(ctx context.Context, messages []model.Message, modelID string) (string, error) {
	if err := p.ensureReady(ctx); err != nil {
		return "", err
	}
	return p.runtime.SendMessage(ctx, messages, p.modelName)
}

func (p *OfflineProvider) ensureReady(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ready {
		return nil
	}

	modelPath := filepath.Join(p.cacheDir, p.modelName+".gguf")
	if _, err := os.Stat(modelPath); err != nil {
		if !os.IsNotExist(err) {
			return model.NewProviderError("failed to check model cache", err)
		}
		if p.modelURL == "" {
			return model.NewProviderError("offline model is not cached and no download url is configured", nil)
		}
		if err = p.download(ctx, modelPath); err != nil {
			return err
		}
	}

	p.ready = true
	return nil
}

func (p *OfflineProvider) download(ctx context.Context, modelPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.modelURL, nil)
	if err != nil {
		return model.NewProviderError("failed to build model download request", err)
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return model.NewProviderError("failed to download offline model", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.NewProviderError(fmt.Sprintf("model download failed: %s", resp.Status), nil)
	}

	if err = os.MkdirAll(filepath.Dir(modelPath), 0o755); err != nil {
		return model.NewProviderError("failed to create model cache dir", err)
	}
	tmpPath := modelPath + ".partial"
	f, err := os.Create(tmpPath)
	if err != nil {
		return model.NewProviderError("failed to create model cache file", err)
	}
	if _, err = io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return model.NewProviderError("failed to write model cache file", err)
	}
	if err = f.Close(); err != nil {
		os.Remove(tmpPath)
		return model.NewProviderError("failed to close model cache file", err)
	}
	if err = os.Rename(tmpPath, modelPath); err != nil {
		return model.NewProviderError("failed to finalize model cache file", err)
	}
	return nil
}
