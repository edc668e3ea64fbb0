package control

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net"

	"casement/internal/logging"
)

// handleConn runs the per-connection read loop. Each newline-terminated
// segment is one request; responses go out in the order requests were
// parsed, because the next line is not read until the previous response has
// been written.
func (s *Server) handleConn(conn net.Conn, connID string) {
	defer conn.Close()

	logger := s.logger.With(logging.String(logging.FieldConnID, connID))
	logger.Debug("connection opened")

	reader := bufio.NewReader(conn)
	for {
		line, readErr := reader.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) > 0 {
			response := s.dispatchLine(line, logger)
			if err := writeResponse(conn, response); err != nil {
				logger.Debug("write failed, dropping connection", logging.Error(err))
				return
			}
		}
		if readErr != nil {
			if !errors.Is(readErr, io.EOF) {
				logger.Debug("read failed, dropping connection", logging.Error(readErr))
			} else {
				logger.Debug("connection closed by peer")
			}
			return
		}
	}
}

func writeResponse(w io.Writer, response Response) error {
	payload, err := json.Marshal(response)
	if err != nil {
		return err
	}
	payload = append(payload, '\n')
	_, err = w.Write(payload)
	return err
}
