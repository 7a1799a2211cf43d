// Package mqrelay relays broker deliveries to a message handler.
//
// Typical flow:
//  1. Open a Stream of deliveries with a broker-specific adapter (see the rabbitmq package).
//  2. Run a Relay with a Handler: PrintHandler writes bodies to stdout, the mysql package
//     persists them.
//  3. The Relay acknowledges every delivery before handling it, drops payloads that are not
//     valid UTF-8 and stops on the first fatal error.
package mqrelay
