// Package token generates opaque, high-entropy tokens for single-use flows
// such as password resets.
//
// Tokens are raw random bytes from crypto/rand encoded with URL-safe base64,
// so they can travel in a query parameter without further escaping. Unlike
// signed payload tokens, they carry no data: the server stores the token
// alongside its metadata and revokes it by deleting the record, which is what
// makes single-use and server-side expiry enforceable.
//
// # Usage
//
//	import "github.com/hyphalab/authkit/pkg/token"
//
//	tok, err := token.Generate()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// persist tok with its owner and expiry, hand it out once
//
// The default size is 32 bytes (256 bits of entropy). Use GenerateN for a
// different size; sizes below MinBytes are rejected to prevent accidentally
// weak tokens.
package token
