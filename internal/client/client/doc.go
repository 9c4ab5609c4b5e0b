// Package client contains the transport and local-storage bootstrap of the
// placemark client.
//
// # Overview
//
// The package provides:
//  1. The REST API contract (see the Client interface): token refresh,
//     login, registration, account deletion, location listing and creation,
//     and the owner-info sub-form.
//  2. A concrete JSON/HTTP implementation (see HTTPClient) that keeps the
//     server's refresh cookie in a cookie jar, attaches bearer tokens and
//     maps HTTP statuses to package errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations,
//     NewRepositories) wiring an SQLite file and applying embedded goose
//     migrations.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable; rejected credentials wrap
// ErrUnauthorized; 400 and 422 responses become *models.ValidationError
// carrying the server's messages verbatim; other statuses are *StatusError.
//
// The client never refreshes tokens on its own. Callers obtain a fresh
// token from the session guard and pass it in.
package client
