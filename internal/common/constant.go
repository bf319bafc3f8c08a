// Package common contains shared constants and sentinel errors used across
// ContactGain components.
package common

// ClientIdentifierHeaderName is the HTTP header carrying the opaque
// per-browser identifier. It is generated client-side and never
// authenticated; it only scopes session listings and creator actions.
const ClientIdentifierHeaderName = "X-Client-Identifier"

// VCFCounterName is the app_counters row backing file sequence numbers.
const VCFCounterName = "session_vcf_download_name"
