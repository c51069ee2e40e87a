// Package client provides a typed JSON HTTP client built on [net/http].
//
// # Building a Client
//
// Use [Build] to create a [Client] with functional options:
//
//	c, err := client.Build(
//		client.WithTimeout(10 * time.Second),
//		client.WithUserAgent("myapp/1.0"),
//	)
//	if err != nil { ... }
//	defer c.Close()
//
// Build starts a [reachability.Monitor] owned by the Client; Close stops it.
// Pass [WithReachability] to share a monitor you manage yourself.
//
// # Making Requests
//
// Requests are generic functions parameterised by the response type:
//
//	user, err := client.Get[User](ctx, c, "https://api.example.com/users/1")
//	ack, err := client.Post[Ack](ctx, c, "https://api.example.com/users", NewUser{Name: "Bo"})
//
// Only a 200 status is a success. Anything else, including 201 and 204,
// is reported as [ErrInvalidResponse].
//
// # Errors
//
// Every request failure is a [*NetworkError] wrapping exactly one of
// [ErrNoInternet], [ErrInvalidURL], [ErrEncoding], [ErrDecoding],
// [ErrInvalidResponse] or [ErrCustom]:
//
//	if errors.Is(err, client.ErrNoInternet) { ... }
//
// # Async Requests
//
// [GetAsync], [PostAsync] and [DeleteAsync] return a [Task] resolving
// to the same outcome:
//
//	task := client.GetAsync[User](ctx, c, u)
//	// ... do other work ...
//	user, err := task.Wait()
//
// For rate limiting see the
// [github.com/adamwoolhether/mkapi/client/throttle] package.
package client
