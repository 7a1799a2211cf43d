// Package rabbitmq adapts an AMQP 0-9-1 broker to the mqrelay Stream interface.
//
// A Client owns one connection and one channel. Setup is strictly ordered:
// Dial, OpenChannel, DeclareQueue, Consume. Deliveries use manual acknowledgement.
package rabbitmq
