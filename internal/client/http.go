package client

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// getBody performs a GET request honouring the context deadline, falling back to timeout.
// Non-200 responses are returned as errors together with the body.
func getBody(ctx context.Context, client *fasthttp.Client, requestURL string, headers map[string]string, timeout time.Duration) ([]byte, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = client.DoDeadline(req, resp, deadline)
	} else {
		err = client.DoTimeout(req, resp, timeout)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
	}

	// the body is owned by resp, copy it before release
	body := append([]byte(nil), resp.Body()...)
	if resp.StatusCode() != fasthttp.StatusOK {
		return body, resp.StatusCode(), fmt.Errorf("request to %s failed with status %d: %s", requestURL, resp.StatusCode(), string(body))
	}
	return body, resp.StatusCode(), nil
}
