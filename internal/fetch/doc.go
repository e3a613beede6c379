// Package fetch provides the retrying HTTP client used to download schemas.
//
// This package handles:
//   - Connection pooling for concurrent downloads
//   - Whole-body GET requests
//   - Retry with exponential backoff
//
// A request is considered failed when the transport errors or the response
// status is not 2xx; both cases are retried until the attempt budget is
// exhausted, at which point a *DownloadError carrying the final cause is
// returned.
//
// # Usage
//
//	client := fetch.NewClient(fetch.DefaultOptions())
//	data, err := client.Get(ctx, url)
package fetch
