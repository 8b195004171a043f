// Package gateway is the public entry point for resilient text
// generation against a slow backend.
//
// A Client composes the lower-level packages around an injected
// Backend: requests are fingerprinted into deterministic cache keys,
// looked up in a bounded LRU cache, and on a miss invoked through the
// resilience executor (retries, backoff, per-operation circuit
// breaker). Every invocation feeds the performance monitor, and the
// operational Status view aggregates cache statistics, breaker states,
// performance scores and backend health in one place.
//
// # Basic Usage
//
//	client, err := gateway.New(backend, gateway.Config{})
//	if err != nil {
//	    return err
//	}
//
//	resp, err := client.GenerateText(ctx, &gateway.Request{
//	    Prompt: "Summarize the attached document.",
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(resp.Content, resp.Cached)
//
// Two concurrent misses for the same request may both reach the
// backend; the cache is an efficiency layer, not a deduplication
// barrier.
package gateway
