package test

import (
	"bufio"
	"context"
	"net/http"
	"strings"
	"testing"
	"time"
)

// Event is one decoded server-sent event.
type Event struct {
	Name string
	Data string
}

// EventReader reads server-sent events from a live response.
type EventReader struct {
	t    *testing.T
	resp *http.Response
	r    *bufio.Reader
}

// OpenStream issues a GET to url with the given headers and returns a reader
// over its event stream. The stream is closed with the test.
func OpenStream(t *testing.T, url string, header http.Header) *EventReader {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("http.NewRequestWithContext(%v) returned error: %v", url, err)
	}

	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %v returned error: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	return &EventReader{t: t, resp: resp, r: bufio.NewReader(resp.Body)}
}

// StatusCode returns the response status of the stream request.
func (er *EventReader) StatusCode() int {
	return er.resp.StatusCode
}

// Header returns the response headers of the stream request.
func (er *EventReader) Header() http.Header {
	return er.resp.Header
}

// Next returns the next event. ok is false once the server ends the stream.
func (er *EventReader) Next() (ev Event, ok bool) {
	er.t.Helper()

	var data []string

	for {
		line, err := er.r.ReadString('\n')
		if err != nil {
			return Event{}, false
		}

		line = strings.TrimRight(line, "\r\n")

		switch {
		case line == "":
			if ev.Name == "" && len(data) == 0 {
				continue
			}
			ev.Data = strings.Join(data, "\n")
			return ev, true
		case strings.HasPrefix(line, "event:"):
			ev.Name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		}
	}
}

// MustNext returns the next event and fails the test if the stream ended.
func (er *EventReader) MustNext() Event {
	er.t.Helper()

	ev, ok := er.Next()
	if !ok {
		er.t.Fatal("event stream ended, want another event")
	}

	return ev
}
