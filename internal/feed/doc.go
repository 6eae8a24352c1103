// Package feed provides the client for the current-price feed.
//
// Endpoint (default):
//   - https://api.coindesk.com/v1/bpi/currentprice.json
//
// The feed is polled with a single unauthenticated GET. Only time.updated and
// bpi.<CODE>.rate are consumed; everything else in the payload is ignored.
// There are no retries: a failed fetch is reported and the caller waits for its
// next scheduled attempt.
package feed
