// Package tingwu implements the client for the Tingwu offline transcription
// API. It submits transcription tasks, queries task status, and drives the
// polling loop from submission to a terminal task state. Requests are
// authenticated with the ACS3-HMAC-SHA256 scheme from the signer package.
package tingwu
