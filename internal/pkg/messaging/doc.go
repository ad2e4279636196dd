// Package messaging publishes and consumes events over NATS, NSQ, Kafka or
// Google Pub/Sub behind one interface. Headers travel natively where the broker
// supports them, as Pub/Sub attributes, or inside a JSON envelope on NSQ.
package messaging
