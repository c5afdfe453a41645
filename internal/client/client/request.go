package client

import (
	"net/http"
	"net/url"
	"strings"
)

// Param is one query parameter.
type Param struct {
	Key   string
	Value string
}

// Query keeps parameters in insertion order; url.Values would sort them.
type Query []Param

func (q Query) Add(key, value string) Query {
	return append(q, Param{Key: key, Value: value})
}

func (q Query) Encode() string {
	var b strings.Builder
	for i, p := range q {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// Request is one logical API call. Path is relative to the base URL.
//
// Retry marks a request that already went through auth-expiry handling, so
// the session is purged at most once per logical request.
type Request struct {
	Method string
	Path   string
	Query  Query
	Body   any
	Header http.Header
	Retry  bool
}

func NewRequest(method, path string, body any) *Request {
	return &Request{Method: method, Path: path, Body: body}
}

// Response is a fully read HTTP response.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}
