// Command gonewton finds roots of single-variable functions with the
// Newton-Raphson method, from the command line or as a server.
package main

func main() {
	Execute()
}
