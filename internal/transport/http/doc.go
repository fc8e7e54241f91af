// Package http contains the HTTP handlers of the claims report API.
//
// ClaimsHandler serves the normalized record set and the aggregate views
// as JSON, plus report downloads in CSV, Excel, and JSON form.
// MetricsHandler exposes health and prometheus endpoints.
package http
