package ipfs

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"issuance_tracker/internal/domain/entity"

	"github.com/patrickmn/go-cache"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// IconLoader turns IPFS content identifiers into data: URIs.
// Content is addressed by hash, so fetched icons are kept for the process lifetime.
type IconLoader struct {
	client     *fasthttp.Client
	gatewayURL string
	timeout    time.Duration
	logger     *zap.Logger
	icons      *cache.Cache
}

// NewIconLoader creates a loader fetching through the given gateway, e.g. "https://ipfs.io/ipfs".
func NewIconLoader(gatewayURL string, timeout time.Duration, logger *zap.Logger) *IconLoader {
	return &IconLoader{
		client:     &fasthttp.Client{},
		gatewayURL: strings.TrimRight(gatewayURL, "/"),
		timeout:    timeout,
		logger:     logger.Named("IPFSIconLoader"),
		icons:      cache.New(cache.NoExpiration, 0),
	}
}

// DataURI fetches cid and returns it as a base64 data URI of the given MIME type.
// An empty mimeType means image/svg+xml.
func (l *IconLoader) DataURI(ctx context.Context, cid, mimeType string) (string, error) {
	if cid == "" {
		return "", fmt.Errorf("%w: empty IPFS content identifier", entity.ErrConfiguration)
	}
	if mimeType == "" {
		mimeType = entity.DefaultIconType
	}

	key := mimeType + ":" + cid
	if uri, found := l.icons.Get(key); found {
		return uri.(string), nil
	}

	body, err := l.fetch(ctx, cid)
	if err != nil {
		l.logger.Error("Failed to fetch icon", zap.String("cid", cid), zap.Error(err))
		return "", fmt.Errorf("%w: icon %s: %v", entity.ErrDataUnavailable, cid, err)
	}

	uri := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(body)
	l.icons.Set(key, uri, cache.NoExpiration)
	l.logger.Debug("Icon loaded", zap.String("cid", cid), zap.Int("bytes", len(body)))
	return uri, nil
}

// Loader returns a lazy loader for one icon.
func (l *IconLoader) Loader(cid, mimeType string) func(ctx context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		return l.DataURI(ctx, cid, mimeType)
	}
}

func (l *IconLoader) fetch(ctx context.Context, cid string) ([]byte, error) {
	requestURL := fmt.Sprintf("%s/%s", l.gatewayURL, cid)

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = l.client.DoDeadline(req, resp, deadline)
	} else {
		err = l.client.DoTimeout(req, resp, l.timeout)
	}
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", requestURL, err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("request to %s failed with status %d", requestURL, resp.StatusCode())
	}
	return append([]byte(nil), resp.Body()...), nil
}
