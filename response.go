package grademywork

import (
	"bytes"
	"io"
	"net/http"
	"time"
)

const maxErrorBody = 64 * 1024

func (c *Client) decodeResponse(req *http.Request, resp *http.Response, route Route, requestID string, start time.Time, out interface{}) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.metrics.RecordError(ErrorTypeRemote, route.Method, route.Template)
		return &RemoteError{
			StatusCode: resp.StatusCode,
			Body:       remoteBodyText(data),
			Method:     req.Method,
			URL:        req.URL.String(),
			RequestID:  requestID,
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		c.metrics.RecordError(ErrorTypeDecode, route.Method, route.Template)
		return &ClientError{
			Type:      ErrorTypeDecode,
			Message:   "decode response body",
			Cause:     err,
			RequestID: requestID,
			Method:    req.Method,
			URL:       req.URL.String(),
			Timestamp: time.Now(),
			Duration:  time.Since(start),
		}
	}
	return nil
}

// remoteBodyText renders an error body for RemoteError: a JSON string is
// unquoted, anything else is kept verbatim minus surrounding whitespace.
func remoteBodyText(data []byte) string {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 1 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	return string(trimmed)
}
