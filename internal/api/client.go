package api

import (
	"context"
	"encoding/json"
	"time"

	"tft-wrapped/internal/apperr"

	"github.com/valyala/fasthttp"
)

func newHTTPClient() *fasthttp.Client {
	return &fasthttp.Client{
		MaxConnsPerHost:     100,
		ReadTimeout:         10 * time.Second,
		WriteTimeout:        10 * time.Second,
		MaxIdleConnDuration: 1 * time.Minute,
	}
}

// responseObserver sees every response that made it back, whatever its status.
type responseObserver func(resp *fasthttp.Response)

// doRequest sends one request and decodes a 200 response into T. Failures
// are reported as *apperr.Error: transport and decoding problems are
// network errors, other statuses go through apperr.FromStatus.
func doRequest[T any](ctx context.Context, client *fasthttp.Client, method, url string, body any, observe responseObserver) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(method)
	req.Header.Set("Accept", "application/json")

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindNetwork, "failed to encode request", err)
		}
		req.Header.SetContentType("application/json")
		req.SetBodyRaw(payload)
	}

	if err := ctx.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindNetwork, "request cancelled", err)
	}

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = client.DoDeadline(req, resp, deadline)
	} else {
		err = client.Do(req, resp)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindNetwork, "network error", err)
	}

	if observe != nil {
		observe(resp)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		msg := apperr.PayloadMessage(string(resp.Header.ContentType()), resp.Body())
		return nil, apperr.FromStatus(resp.StatusCode(), msg)
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, apperr.Wrap(apperr.KindNetwork, "failed to decode response", err)
	}
	return &result, nil
}
