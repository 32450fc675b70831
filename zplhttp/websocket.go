// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package zplhttp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"zombiezen.com/go/log"

	"github.com/ASD-GmbH/ZPL/zpl"
)

// ErrorPrefix starts a WebSocket reply for a document that could not be
// parsed. The rest of the message is the error text.
const ErrorPrefix = "error: "

const closeTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

func (h *Handler) serveWebSocket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	opts, err := h.options(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		log.Infof(ctx, "%supgrade websocket: %v", logPrefix(ctx), err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(MaxDocumentSize)

	for {
		typ, msg, err := readMessage(ctx, conn)
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return
		}
		if err != nil {
			log.Infof(ctx, "%s%v", logPrefix(ctx), err)
			return
		}
		if typ != websocket.TextMessage {
			closeMsg := websocket.FormatCloseMessage(websocket.CloseUnsupportedData, "text messages only")
			conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(closeTimeout))
			return
		}
		if err := writeMessage(ctx, conn, websocket.TextMessage, format(msg, &opts)); err != nil {
			log.Infof(ctx, "%s%v", logPrefix(ctx), err)
			return
		}
	}
}

// format returns the canonical form of a document or its parse error
// prefixed with ErrorPrefix.
func format(msg []byte, opts *zpl.ParseOptions) []byte {
	doc, err := zpl.Parse(bytes.NewReader(msg), opts)
	if err != nil {
		return []byte(ErrorPrefix + err.Error())
	}
	text, _ := doc.MarshalText()
	return text
}

// readMessage reads the next message from conn, giving up when ctx is done.
func readMessage(ctx context.Context, conn *websocket.Conn) (messageType int, p []byte, err error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, fmt.Errorf("read websocket message: %w", err)
	}
	stop := interruptOnDone(ctx, func() {
		conn.SetReadDeadline(time.Now())
	})
	messageType, p, err = conn.ReadMessage()
	stop()
	var closeErr *websocket.CloseError
	if err != nil && !errors.As(err, &closeErr) {
		// Close errors are returned as-is for websocket.IsCloseError.
		err = fmt.Errorf("read websocket message: %w", err)
	}
	return messageType, p, err
}

// writeMessage writes a message to conn, giving up when ctx is done.
func writeMessage(ctx context.Context, conn *websocket.Conn, messageType int, data []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("write websocket message: %w", err)
	}
	stop := interruptOnDone(ctx, func() {
		// WriteMessage resets the connection's write deadline, so the
		// deadline is set on the underlying connection instead.
		conn.UnderlyingConn().SetWriteDeadline(time.Now())
	})
	err := conn.WriteMessage(messageType, data)
	stop()
	if err != nil {
		return fmt.Errorf("write websocket message: %w", err)
	}
	return nil
}

// interruptOnDone calls interrupt if ctx is done before the returned stop
// function is called. stop waits for the watching goroutine to exit.
func interruptOnDone(ctx context.Context, interrupt func()) (stop func()) {
	done := ctx.Done()
	if done == nil {
		return func() {}
	}
	finished := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		select {
		case <-finished:
		case <-done:
			interrupt()
		}
	}()
	return func() {
		close(finished)
		<-exited
	}
}
