// Package security holds the TLS settings shared by the HTTP server and the
// Kafka event publisher.
//
// The same TLSConfig builds either side of a connection. As a client it
// trusts CAFile and presents CertFile/KeyFile for mTLS; as a server it
// presents CertFile/KeyFile and, when CAFile is set, requires clients to
// present a certificate signed by it.
//
//	server:
//	  tls:
//	    cert_file: /etc/resultd/tls/cert.pem
//	    key_file: /etc/resultd/tls/key.pem
//	events:
//	  kafka:
//	    tls:
//	      ca_file: /etc/resultd/tls/kafka-ca.pem
package security
