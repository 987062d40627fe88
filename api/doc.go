// Package api define interfaces and error values shared by the pool,
// cache, region and JSON packages.
package api
