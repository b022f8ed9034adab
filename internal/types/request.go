package types

import "net"

// represents the parsed head of a client request
type Request struct {
	// non-empty lines read before the blank line that ends the head
	Head []string
	// second whitespace-separated token of the first line
	Path string
}

// defines how accepted connections should be processed
type Handler interface {
	// serves one connection rooted at root, then closes it
	Handle(conn net.Conn, root string)
}

// function type that implements Handler
type HandlerFunc func(conn net.Conn, root string)

// calls f(conn, root)
func (f HandlerFunc) Handle(conn net.Conn, root string) {
	f(conn, root)
}
