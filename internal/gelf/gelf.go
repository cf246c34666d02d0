package gelf

import (
	"encoding/json"
	"net"
	"os"
	"strings"
	"time"
)

// Writer ships log lines to a GELF endpoint over UDP. It implements
// io.Writer so it can sit behind log.SetOutput via io.MultiWriter.
type Writer struct {
	conn net.Conn
	host string
}

// New dials the GELF UDP endpoint, e.g. "172.17.0.1:12201".
func New(addr string) (*Writer, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, err
	}
	host, _ := os.Hostname()
	if host == "" {
		host = "formbox"
	}
	return &Writer{conn: conn, host: host}, nil
}

func (w *Writer) Close() error {
	return w.conn.Close()
}

// Write sends one GELF message per call. The stdlib log package emits lines
// like "2006/01/02 15:04:05 message\n"; the 20-char date prefix and trailing
// newline are stripped so short_message stays clean.
func (w *Writer) Write(p []byte) (int, error) {
	short := strings.TrimRight(string(p), "\n")
	if len(short) > 20 && short[4] == '/' && short[7] == '/' && short[10] == ' ' && short[13] == ':' {
		short = short[20:]
	}

	msg := map[string]any{
		"version":       "1.1",
		"host":          w.host,
		"short_message": short,
		"timestamp":     float64(time.Now().UnixNano()) / 1e9,
		"level":         levelFor(short),
		"_service":      "formbox",
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return len(p), nil // never fail the log call
	}

	// Fire-and-forget.
	w.conn.Write(payload)
	return len(p), nil
}

// Syslog severities: 3 error, 4 warning, 6 informational.
func levelFor(short string) int {
	switch {
	case strings.Contains(short, "PANIC:") || strings.Contains(short, "Fatal"):
		return 3
	case strings.HasPrefix(short, "Warning:"):
		return 4
	default:
		return 6
	}
}
