// Copyright 2020 YourBase Inc.
// SPDX-License-Identifier: BSD-3-Clause

package zplhttp

import (
	"context"
	"net/http"
)

const requestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestID tags requests that carry an X-Request-ID header. The ID is
// echoed back in the response header and stored in the request Context,
// where Handler picks it up to prefix its log lines.
type RequestID struct {
	Wrap http.Handler
}

func (m *RequestID) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get(requestIDHeader)
	if id == "" {
		m.Wrap.ServeHTTP(w, r)
		return
	}
	w.Header().Set(requestIDHeader, id)
	m.Wrap.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
}

// ContextRequestID returns the request ID stored in ctx by RequestID, or the
// empty string.
func ContextRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// logPrefix returns "[id] " for requests tagged by RequestID.
func logPrefix(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return "[" + id + "] "
	}
	return ""
}
