// Package client contains the identity provider side of the login ceremony.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the IdentityProvider interface) for
//     the four remote operations: Login, Register, CompleteTwoFactor and
//     IsFirstUser.
//  2. A GraphQL-over-HTTP implementation (see GraphQLClient) that speaks the
//     provider's Login / RegisterUser / CompleteTwoFactor / GetIsFirstLogin
//     operations and maps transport and application failures to AuthError.
//  3. An in-memory DevProvider issuing TOTP based email and SMS codes, used by
//     the CLI in development mode and by integration tests.
//
// # Error Handling
//
// Every failure is an *AuthError carrying one of the kinds InvalidCredentials,
// RegistrationFailed, IncompleteVerification or RemoteFailure. Match them with
// errors.Is against ErrInvalidCredentials, ErrRegistrationFailed,
// ErrIncompleteVerification and ErrRemoteFailure. Transport conditions remain
// reachable through errors.Is(err, ErrUnavailable) and ErrUnauthorized.
//
// Concurrency & Contexts
//
// Implementations are safe for concurrent use. All operations accept
// context.Context and honor cancellation; no operation retries on its own.
package client
