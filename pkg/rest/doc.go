// Package rest implements the transport layer shared by all Basispoort
// API clients.
//
// A Client is built once via NewClientBuilder and then shared by the
// typed resource clients (hosted license provider, institutions). It
// owns the pooled TLS connection to a single Basispoort environment,
// composes endpoint URLs from relative paths, and classifies every
// response into a success value or a structured error from pkg/errors.
//
// The transport performs no retries and imposes no per-call deadline of
// its own. Callers bound individual calls with context.Context:
//
//	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
//	defer cancel()
//	var list MethodDetailsList
//	err := client.Get(ctx, "hosted-lika/management/lika/x/methodes", &list)
//
// A Client is immutable after Build and safe for concurrent use.
package rest
