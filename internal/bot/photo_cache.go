package bot

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// photoExtensions lists the photo types Telegram accepts, by MIME type.
var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

const maxPhotoBytes = 5 << 20

// cachedPhoto is a validated download. A failed URL is cached with err set.
type cachedPhoto struct {
	data []byte
	ext  string
	err  error
}

func (c cachedPhoto) file() (tgbotapi.RequestFileData, bool) {
	if c.err != nil {
		return nil, false
	}
	return tgbotapi.FileBytes{Name: "photo" + c.ext, Bytes: c.data}, true
}

// PhotoCache downloads and validates shop photos once per URL. Failed URLs
// are cached too so a broken photo is not retried until the next clear.
type PhotoCache struct {
	cache      sync.Map // url -> cachedPhoto
	httpClient *http.Client
}

func NewPhotoCache() *PhotoCache {
	return &PhotoCache{httpClient: &http.Client{Timeout: 10 * time.Second}}
}

// Get returns the photo at url, or false when it is missing or unusable.
func (p *PhotoCache) Get(url string) (tgbotapi.RequestFileData, bool) {
	if url == "" {
		return nil, false
	}
	if cached, ok := p.cache.Load(url); ok {
		return cached.(cachedPhoto).file()
	}

	photo := p.fetch(url)
	if photo.err != nil {
		slog.Warn("Shop photo unusable", "url", url, "error", photo.err)
	}
	p.cache.Store(url, photo)
	return photo.file()
}

func (p *PhotoCache) fetch(url string) cachedPhoto {
	resp, err := p.httpClient.Get(url)
	if err != nil {
		return cachedPhoto{err: fmt.Errorf("download photo: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return cachedPhoto{err: fmt.Errorf("download photo: status %d", resp.StatusCode)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoBytes))
	if err != nil {
		return cachedPhoto{err: fmt.Errorf("read photo: %w", err)}
	}

	mimeType := mediaType(resp.Header.Get("Content-Type"))
	if mimeType == "" {
		mimeType = mediaType(http.DetectContentType(data))
	}
	ext, ok := photoExtensions[mimeType]
	if !ok {
		return cachedPhoto{err: fmt.Errorf("unsupported photo type %q", mimeType)}
	}
	// image has no webp decoder registered; trust the declared type there.
	if mimeType != "image/webp" {
		if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
			return cachedPhoto{err: fmt.Errorf("decode photo: %w", err)}
		}
	}
	return cachedPhoto{data: data, ext: ext}
}

// mediaType strips parameters such as charset from a Content-Type value.
func mediaType(contentType string) string {
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}

// ClearPeriodically empties the cache every interval until ctx is done.
func (p *PhotoCache) ClearPeriodically(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			clearCount := 0
			p.cache.Range(func(key, value interface{}) bool {
				p.cache.Delete(key)
				clearCount++
				return true
			})
			slog.Info("Photo cache cleared", "count", clearCount)
		case <-ctx.Done():
			return
		}
	}
}
