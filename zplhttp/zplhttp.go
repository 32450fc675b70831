// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

// Package zplhttp serves ZPL formatting over HTTP and WebSockets.
//
// POST /format replies with the canonical form of the request body. Setting
// the relaxed query parameter to a boolean overrides the handler's comment
// mode for that request. GET /format/ws upgrades to a WebSocket on which each
// text message is formatted and sent back.
package zplhttp

import (
	"errors"
	"net/http"
	"strconv"

	"zombiezen.com/go/log"

	"github.com/ASD-GmbH/ZPL/zpl"
)

// MaxDocumentSize is the largest document accepted in a request body or
// WebSocket message.
const MaxDocumentSize = 10 << 20

// Handler formats ZPL documents. The zero value uses strict comments and
// permissive indentation.
type Handler struct {
	Options zpl.ParseOptions
}

// New returns a handler that formats documents with the given options and
// tags requests with their X-Request-ID.
func New(opts zpl.ParseOptions) http.Handler {
	return &RequestID{Wrap: &Handler{Options: opts}}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Debugf(r.Context(), "%s%s %s", logPrefix(r.Context()), r.Method, r.URL.Path)
	switch r.URL.Path {
	case "/format":
		h.serveFormat(w, r)
	case "/format/ws":
		h.serveWebSocket(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) serveFormat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	opts, err := h.options(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	doc, err := zpl.Parse(http.MaxBytesReader(w, r.Body, MaxDocumentSize), &opts)
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		http.Error(w, "document too large", http.StatusRequestEntityTooLarge)
		return
	case err != nil:
		log.Infof(ctx, "%sformat: %v", logPrefix(ctx), err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := doc.WriteTo(w); err != nil {
		log.Warnf(ctx, "%swrite response: %v", logPrefix(ctx), err)
	}
}

// options returns the handler's parse options adjusted by the request's
// query parameters.
func (h *Handler) options(r *http.Request) (zpl.ParseOptions, error) {
	opts := h.Options
	if v := r.URL.Query().Get("relaxed"); v != "" {
		relaxed, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New("relaxed: invalid boolean " + strconv.Quote(v))
		}
		opts.Relaxed = relaxed
	}
	return opts, nil
}
