// Package summarizer generates transcript summaries through the OpenAI chat
// completions API. The client retries transient HTTP failures with
// exponential backoff and honors Retry-After hints on rate limits.
package summarizer
