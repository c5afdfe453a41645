// Package models holds the ContactX domain types and the response envelope.
//
// The backend does not use one envelope shape: lists may arrive as
// {"data":{"cards":[...]}}, {"data":[...]}, {"cards":[...]} or a bare array.
// Envelope keeps the raw body and offers one normalizer per payload kind so
// that callers do not repeat the fallback chain.
package models
