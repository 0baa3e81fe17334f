// Package common contains shared constants and sentinel errors used across
// flipkeeper components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the node
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// FlipFilterKey is the preference key under which the selected flip list
// filter is persisted.
const FlipFilterKey = "flipFilter"
