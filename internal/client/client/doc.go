// Package client is the single HTTP path between the ContactX client and its
// REST backend.
//
// # Overview
//
// Every call goes through HTTPClient.Do, which:
//  1. builds the request and runs the request interceptors (JSON headers,
//     bearer token, origin-family headers, X-Timezone, X-Request-ID and a
//     development-only debug log);
//  2. performs the round trip with a fixed client timeout;
//  3. hands the result to the Classifier, an ordered list of rules of which
//     the first match decides the outcome.
//
// # Classification
//
// The default rules run in this order:
//
//	success              2xx, returned unchanged
//	transport            no response; rejected with a troubleshooting message
//	absorb-schema-error  400/500 whose message names a database-level failure;
//	                     resolved as {"success":true,"data":[],"message":"No data available"}
//	auth-expired         401 on a request not yet marked Retry; the stored session
//	                     is purged and the request is rejected
//	propagate            everything else, rejected
//
// Every rejection is an *APIError with Handled set and a UserMessage taken
// from the body's "message", then "error", then the error text, then
// "An error occurred". Callers match with errors.As, the Is* helpers, or
// errors.Is against ErrUnauthorized / ErrUnavailable.
//
// The absorb rule is a known sharp edge: it matches on substrings, so a
// validation message that happens to say "table" is swallowed as well. Its
// vocabulary is fixed on purpose.
//
// The client does not retry; see package resilience for caller-side helpers.
package client
