/*
Package observability turns the runtime lifecycle hooks into Prometheus metrics and
structured log lines.

Both are plain domain.LifecycleHooks and can be combined with domain.MergeHooks.
*/
package observability
