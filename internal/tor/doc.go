// Package tor routes document loads through a SOCKS5 proxy.
//
// Client wraps a golang.org/x/net/proxy SOCKS5 dialer and hands out an
// http.Transport that dials through it. Daemon starts a private Tor process
// with tornago for targets on .onion hosts when no proxy is configured.
// The onion helpers validate v3 addresses before any connection is tried.
//
// # Usage
//
//	client, err := tor.NewClient("127.0.0.1:9050", 30*time.Second)
//	if err != nil {
//	    return err
//	}
//	if err := client.CheckConnection(ctx).Err(); err != nil {
//	    return err
//	}
//	loader := fetch.New(fetch.WithProxyTransport(client.Transport()))
package tor
