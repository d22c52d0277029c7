// Package whatpulse provides an HTTP client for the WhatPulse desktop
// client's local API.
//
// # Overview
//
// The WhatPulse client exposes a small JSON API on the local machine
// (http://localhost:3490/v1/ by default, enabled in the client settings).
// This package wraps its three read endpoints:
//
//   - GET /v1/account-totals: lifetime counters and per-metric ranks
//   - GET /v1/unpulsed: counters accumulated since the last pulse
//   - GET /v1/pulse: submit the unpulsed counters to the account
//
// # Client Usage
//
//	client, err := whatpulse.NewClient(whatpulse.WithHost("10.0.0.2"))
//	if err != nil {
//		log.Fatalf("init client: %v", err)
//	}
//
//	totals, err := client.FetchAccountTotals(ctx)
//	unpulsed, err := client.FetchUnpulsedStats(ctx)
//	err = client.Pulse(ctx)
//
// Unset options fall back to localhost, port 3490 and http. The base URL is
// fixed at construction; a malformed host, scheme or port fails there.
//
// # Wire Quirks
//
// account-totals encodes every number as a JSON string (including the
// nested rank_* fields). Each field is converted with a strict unsigned
// integer parse and any bad field fails the whole call. unpulsed already
// sends JSON numbers and is decoded as-is. The asymmetry is the upstream's
// and is kept on purpose.
//
// # Error Handling
//
// Failures come from two places and surface as one type, *Error:
//
//   - HTTP status: 401 (address not allowed), 404 (bad URL or unsupported
//     client version), 405 (bad method), anything else (unknown status,
//     message carries the code)
//   - a 200 response whose body has a truthy "error" field
//
// Use errors.Is with ErrAccessDenied, ErrNotFound, ErrMethodNotAllowed,
// ErrUnknownStatus or ErrAPI to branch on the kind. Transport errors
// (connection refused, DNS) are returned unchanged. Malformed bodies yield
// a wrapped decode error.
//
// The package never logs and never retries; callers own both.
//
// # Pulse Confirmation
//
// The upstream does not say whether a pulse was accepted. Pulse returning
// nil means the request was answered without an error envelope, nothing
// more.
//
// # Thread Safety
//
// A Client is immutable after NewClient and safe for concurrent use. Each
// call is an independent request; connection reuse is left to the
// underlying http.Client.
package whatpulse
