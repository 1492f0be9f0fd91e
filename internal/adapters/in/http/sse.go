package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"fulfillment/internal/core/domain/model/event"

	"github.com/labstack/echo/v4"
)

// sseSink writes events as server-sent event frames:
//
//	event: <kind>
//	data: <json>
type sseSink struct {
	resp *echo.Response
}

func newSSESink(resp *echo.Response) *sseSink {
	return &sseSink{resp: resp}
}

func (s *sseSink) open() {
	header := s.resp.Header()
	header.Set(echo.HeaderContentType, "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	s.resp.WriteHeader(http.StatusOK)
	s.resp.Flush()
}

func (s *sseSink) Send(kind event.Kind, data json.RawMessage) error {
	var frame bytes.Buffer
	fmt.Fprintf(&frame, "event: %s\n", kind)
	for line := range bytes.SplitSeq(data, []byte("\n")) {
		frame.WriteString("data: ")
		frame.Write(line)
		frame.WriteByte('\n')
	}
	frame.WriteByte('\n')

	if _, err := s.resp.Write(frame.Bytes()); err != nil {
		return err
	}
	s.resp.Flush()
	return nil
}
