// Package token implements the API token lifecycle: issuance with a
// find-or-reuse guarantee, soft revocation and key-redacted listing.
package token
