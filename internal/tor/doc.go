// Package tor routes probe traffic through the Tor network.
//
// A run can use an external Tor daemon (--tor-proxy host:port) or start an
// embedded one through tornago (--tor). Either way the result is a Client
// whose DialContext is plugged into the HTTP transport, so workers send
// their requests through the SOCKS5 proxy without knowing about Tor.
//
// The package also validates .onion seeds: a v3 address carries a SHA3
// checksum, and probing an onion service without Tor is rejected before
// any request is made.
package tor
