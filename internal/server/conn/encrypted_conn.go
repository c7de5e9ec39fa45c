package conn

import (
	"crypto/aes"
	"fmt"
	"net"
)

// encryptedConn wraps a socket with AES/CFB8 in both directions. The
// shared secret doubles as key and IV, with independent streams per
// direction.
type encryptedConn struct {
	conn    net.Conn
	encrypt *cfb8Stream
	decrypt *cfb8Stream
}

func newEncryptedConn(conn net.Conn, sharedSecret []byte) (*encryptedConn, error) {
	encBlock, err := aes.NewCipher(sharedSecret)
	if err != nil {
		return nil, fmt.Errorf("create AES cipher: %w", err)
	}
	decBlock, err := aes.NewCipher(sharedSecret)
	if err != nil {
		return nil, fmt.Errorf("create AES cipher: %w", err)
	}

	return &encryptedConn{
		conn:    conn,
		encrypt: newCFB8(encBlock, sharedSecret, true),
		decrypt: newCFB8(decBlock, sharedSecret, false),
	}, nil
}

func (e *encryptedConn) Read(p []byte) (int, error) {
	n, err := e.conn.Read(p)
	if n > 0 {
		e.decrypt.XORKeyStream(p[:n], p[:n])
	}
	return n, err
}

func (e *encryptedConn) Write(p []byte) (int, error) {
	out := make([]byte, len(p))
	e.encrypt.XORKeyStream(out, p)
	return e.conn.Write(out)
}
