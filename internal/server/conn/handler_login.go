package conn

import (
	"bytes"
	"crypto/md5"
	"crypto/rand"
	"crypto/rsa"
	"fmt"

	"github.com/google/uuid"

	"github.com/mcpp/server/internal/server/clientbound"
	mcnet "github.com/mcpp/server/internal/server/net"
	"github.com/mcpp/server/internal/server/packet"
)

func (c *Connection) handleLogin(packetID int32, data []byte) error {
	switch packetID {
	case 0x00: // Login Start
		return c.handleLoginStart(data)
	case 0x01: // Encryption Response
		return c.handleEncryptionResponse(data)
	case 0x03: // Login Acknowledged
		return c.handleLoginAcknowledged()
	default:
		return fmt.Errorf("%w: unexpected login packet 0x%02X", ErrProtocolViolation, packetID)
	}
}

func (c *Connection) handleLoginStart(data []byte) error {
	var login packet.LoginStart
	if err := mcnet.Unmarshal(data, &login); err != nil {
		return fmt.Errorf("unmarshal login start: %w", err)
	}

	c.log.Info("login start", "username", login.Name)

	if c.cfg.OnlineMode {
		return c.startOnlineLogin(login.Name)
	}

	return c.finishLogin(login.Name, offlineUUID(login.Name), nil)
}

func (c *Connection) startOnlineLogin(username string) error {
	verifyToken := make([]byte, 4)
	if _, err := rand.Read(verifyToken); err != nil {
		return fmt.Errorf("generate verify token: %w", err)
	}

	c.loginName = username
	c.loginVerifyToken = verifyToken

	req, err := mcnet.Marshal(&packet.EncryptionRequest{
		ServerID:           "",
		PublicKey:          c.cfg.PublicKeyDER,
		VerifyToken:        verifyToken,
		ShouldAuthenticate: true,
	})
	if err != nil {
		return err
	}
	c.Send(mcnet.Frame{ID: packet.EncryptionRequestID, Payload: req})
	return nil
}

func (c *Connection) handleEncryptionResponse(data []byte) error {
	if c.cfg.PrivateKey == nil || c.loginName == "" {
		return fmt.Errorf("%w: encryption response without encryption request", ErrProtocolViolation)
	}

	var resp packet.EncryptionResponse
	if err := mcnet.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("unmarshal encryption response: %w", err)
	}

	sharedSecret, err := rsa.DecryptPKCS1v15(rand.Reader, c.cfg.PrivateKey, resp.SharedSecret)
	if err != nil {
		return fmt.Errorf("decrypt shared secret: %w", err)
	}
	verifyToken, err := rsa.DecryptPKCS1v15(rand.Reader, c.cfg.PrivateKey, resp.VerifyToken)
	if err != nil {
		return fmt.Errorf("decrypt verify token: %w", err)
	}
	if !bytes.Equal(verifyToken, c.loginVerifyToken) {
		return fmt.Errorf("%w: verify token mismatch", ErrProtocolViolation)
	}

	// The response itself arrived unencrypted; everything after it,
	// including Login Success, is encrypted.
	if err := c.enableEncryption(sharedSecret); err != nil {
		return fmt.Errorf("enable encryption: %w", err)
	}

	serverHash := minecraftSHA1HexDigest("", sharedSecret, c.cfg.PublicKeyDER)
	profile, err := verifyWithMojang(c.ctx, c.loginName, serverHash)
	if err != nil {
		c.Disconnect("Failed to verify with the session server.")
		return fmt.Errorf("mojang verify: %w", err)
	}

	id, err := uuid.Parse(profile.ID)
	if err != nil {
		return fmt.Errorf("parse profile UUID %q: %w", profile.ID, err)
	}

	props := make([]clientbound.InfoProperty, len(profile.Properties))
	for i, p := range profile.Properties {
		props[i] = clientbound.InfoProperty{Name: p.Name, Value: p.Value, Signature: p.Signature}
	}

	return c.finishLogin(profile.Name, id, props)
}

// finishLogin negotiates compression and sends Login Success. The
// connection stays in Login until the client acknowledges.
func (c *Connection) finishLogin(username string, id uuid.UUID, props []clientbound.InfoProperty) error {
	c.loginName = username
	c.loginUUID = id
	c.loginProps = props

	if c.cfg.CompressionThreshold >= 0 {
		data, err := mcnet.Marshal(&packet.SetCompression{Threshold: int32(c.cfg.CompressionThreshold)})
		if err != nil {
			return err
		}
		if !c.Send(mcnet.Frame{ID: packet.SetCompressionID, Payload: data}) {
			return fmt.Errorf("write set compression")
		}
		// Both directions switch layouts from the next frame on.
		c.framer.EnableCompression(int32(c.cfg.CompressionThreshold))
	}

	c.log.Info("login success", "username", username, "uuid", id.String())

	var buf bytes.Buffer
	mcnet.WriteUUID(&buf, id)
	mcnet.WriteString(&buf, username)
	mcnet.WriteVarInt(&buf, int32(len(props)))
	for _, p := range props {
		mcnet.WriteString(&buf, p.Name)
		mcnet.WriteString(&buf, p.Value)
		if p.Signature != "" {
			mcnet.WriteBool(&buf, true)
			mcnet.WriteString(&buf, p.Signature)
		} else {
			mcnet.WriteBool(&buf, false)
		}
	}
	mcnet.WriteBool(&buf, false) // strict error handling

	if !c.Send(mcnet.Frame{ID: packet.LoginSuccessID, Payload: buf.Bytes()}) {
		return fmt.Errorf("write login success")
	}
	return nil
}

func (c *Connection) handleLoginAcknowledged() error {
	if c.loginUUID == (uuid.UUID{}) {
		return fmt.Errorf("%w: login acknowledged before login success", ErrProtocolViolation)
	}

	c.setState(StateConfiguration)
	c.startWriter()
	c.dir.AddClient(c)
	return c.beginConfiguration()
}

// offlineUUID derives the version-3 offline-mode UUID from the username.
func offlineUUID(username string) uuid.UUID {
	h := md5.Sum([]byte("OfflinePlayer:" + username))
	h[6] = (h[6] & 0x0f) | 0x30 // version 3
	h[8] = (h[8] & 0x3f) | 0x80 // RFC 4122 variant
	return uuid.UUID(h)
}
