// Package homeassistant is a small client for the Home Assistant REST API.
//
// It covers the four calls the dashboard needs:
//
//	GET  /api/                             connection and token check
//	GET  /api/states                       every entity
//	GET  /api/states/{entity_id}           one entity, 404 if unknown
//	POST /api/services/{domain}/{service}  invoke a service with {entity_id, ...}
//
// Every request carries the bearer token. One pooled transport is shared by all
// calls; timeouts depend on the URL scheme (see TimeoutsFor). Failed calls are
// returned as *APIError and never retried.
package homeassistant
