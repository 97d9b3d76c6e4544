// Package httpserver exposes the memory registry over HTTP.
//
// # API Endpoints
//
// Registry operations (owner_id and content_hash are 64-char hex):
//
//	POST /api/registry/{owner_id}                          create registry
//	GET  /api/registry/{owner_id}                          registry info
//	POST /api/registry/{owner_id}/entries                  append entry
//	GET  /api/registry/{owner_id}/entries/{content_hash}   verify entry
//
// Append bodies are JSON:
//
//	{
//	  "content_hash": "ab..ef",
//	  "memory_type": 0,
//	  "importance_tier": 1,
//	  "memory_id": 42,
//	  "encrypted": false
//	}
//
// # Error Mapping
//
// Registry sentinel errors map onto HTTP statuses: validation failures to
// 400, duplicate hashes and repeated creation to 409, query misses to 404,
// authority mismatches to 403, and denied allocations or growth to 507.
// A 404 on verify means "not registered"; transport-level failures surface
// as 5xx so callers can tell the two apart.
//
// # Operational Endpoints
//
// /livez, /readyz, /drain and /undrain serve deployment orchestration, and
// an optional pprof mount plus a separate Prometheus metrics listener
// cover diagnostics.
package httpserver
