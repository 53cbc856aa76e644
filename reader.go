package rtspclient

import "net"

// readChunkEvent carries bytes read from the input socket, or a
// terminal error/EOF, back to the dispatch loop.
type readChunkEvent struct {
	data []byte
	err  error
}

// startReader launches the single goroutine that performs blocking
// reads from nc and feeds the dispatch loop. It exits on first error
// (including io.EOF) or when closeCh fires.
func (c *Client) startReader(nc net.Conn) {
	go func() {
		buf := make([]byte, 4096)
		for {
			select {
			case <-c.closeCh:
				return
			default:
			}

			n, err := nc.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				c.postEvent(&readChunkEvent{data: chunk})
			}
			if err != nil {
				c.postEvent(&readChunkEvent{err: err})
				return
			}
		}
	}()
}
