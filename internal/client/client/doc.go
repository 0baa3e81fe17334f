// Package client talks to a flip node and bootstraps local storage.
//
// # Overview
//
// The package provides:
//  1. The Client contract: Ping, Authenticate, Identity, Epoch, SubmitFlip
//     and DeleteFlip.
//  2. GRPCClient, which keeps a connection to the node, attaches the access
//     token to every call through an interceptor, signs in again when the
//     token expires and maps gRPC status codes to sentinel errors.
//  3. InitDatabase and RunMigrations, which open the local SQLite database
//     and apply the embedded goose migrations.
//
// # Error Handling
//
// Callers match ErrUnavailable, ErrUnauthorized, ErrRejected and
// common.ErrorNotFound with errors.Is.
package client
