// Package services is the typed façade over the ContactX REST API.
//
// Each method builds one request, sends it through client.Doer and returns
// the response as a *models.Envelope. Client errors come back unchanged;
// they are already *client.APIError values. The façade does not cache,
// deduplicate or batch, apart from the short-lived record of the last card
// created.
package services
