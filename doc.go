// Package bankgate implements the authorization and account-lifecycle core of
// a multi-tenant banking backend: bearer-token resolution into typed
// principals, route-level account-type guarding, and the email/phone
// confirmation state machine kept consistent with an external identity
// provider.
//
// Credential storage and verification are fully delegated to the identity
// provider behind the IdentityProvider port; the local store only mirrors
// account rows keyed by the provider's subject identifier.
package bankgate
