// Package client issues REST calls against an injectable transport and
// offers the same request semantics through three calling conventions.
//
// # Building a Client
//
// Use [Build] to create a [Client] with functional options:
//
//	c, err := client.Build(
//		client.WithBaseURL("https://api.example.com/v1"),
//		client.WithTimeouts(5*time.Second, 30*time.Second),
//		client.WithUserAgent("myapp/1.0"),
//	)
//
// # Blocking Calls
//
// [Client.Get], [Client.Post] and friends wait for the outcome. Any 2xx
// status is a success; every failure is an *[Error]:
//
//	resp, err := c.Get(ctx, "/users", client.WithParam("page", "2"))
//	if client.IsStatus(err, http.StatusNotFound) { ... }
//
// # Callbacks
//
// The *Async methods return at once and later call exactly one of the two
// handlers. They accept only a 200 that carries a body:
//
//	c.PostAsync(ctx, "/users", onSuccess, onFail, client.WithJSON(user))
//
// # Single-value Streams
//
// The *Single methods and [Client.Perform] return a cold [Single]. Each
// subscription sends the request again:
//
//	s := c.Perform(client.Route{Method: client.VerbDelete, URI: "/users/7"})
//	for r := range s.Subscribe(ctx) { ... }
//
// # Uploads
//
// [Client.Upload] sends raw bytes and returns without reporting anything;
// its outcome is only logged.
//
// Every call logs a begin line carrying an equivalent curl command and
// then one success or failure line. Rate limiting is available through
// [WithThrottle]; see the [github.com/adamwoolhether/rester/client/throttle]
// package.
package client
