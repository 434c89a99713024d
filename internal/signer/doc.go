// Package signer implements the ACS3-HMAC-SHA256 request signing scheme used
// by Alibaba Cloud's OpenAPI gateway. It builds the canonical request from the
// method, URL, a fixed ordered set of headers, and the body hash, and derives
// the Authorization header without ever transmitting the access key secret.
package signer
