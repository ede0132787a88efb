// Package throttle provides a [transport.Transport] decorator that
// rate-limits outbound requests using a token-bucket algorithm from
// [golang.org/x/time/rate].
//
// # Usage
//
// Wrap an existing transport with [New]:
//
//	base, _ := transport.NewHTTP(transport.Config{})
//	tr, err := throttle.New(
//		10, // requests per second
//		5,  // burst capacity
//		func() *slog.Logger { return slog.Default() },
//		base,
//	)
//
// When the rate limit is exceeded, requests wait for a token on the
// throttle's own goroutine; Submit never blocks the caller. A request whose
// context ends while waiting completes with an error wrapping
// [ErrWaitingFailed] or [ErrContextEnded] and never reaches the wrapped
// transport.
package throttle
