package transport

// DialPipe connects to a named pipe. On Unix this is a Unix domain socket;
// servers started with --pipe expose this transport.
func DialPipe(name string) (Transport, error) {
	return DialSocket(name)
}
