// Package processor contains the application logic behind the command
// line. It loads the dictionaries, translates single names and batch files,
// records results in the store, asks for spelling suggestions and writes
// metrics. This package serves as the main coordinator between all other
// components.
package processor
