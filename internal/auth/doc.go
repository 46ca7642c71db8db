// Package auth issues and validates the HMAC-signed bearer tokens that
// identify the user behind an API request.
//
// The service stores no credentials. Tokens are minted by an operator with
// the server's token command and carry only the user ID.
package auth
