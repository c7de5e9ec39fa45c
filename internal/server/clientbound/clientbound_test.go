package clientbound

import (
	"bytes"
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/mcpp/server/internal/server/nbt"
	mcnet "github.com/mcpp/server/internal/server/net"
	"github.com/mcpp/server/internal/server/packet"
)

func TestAngleQuantization(t *testing.T) {
	for _, deg := range []float32{0, 45, 90, 179.9, 180, 270, 359, 360, -90} {
		angle := Angle(deg)
		back := AngleToDegrees(angle)

		diff := math.Mod(float64(back-deg), 360)
		if diff > 180 {
			diff -= 360
		}
		if diff < -180 {
			diff += 360
		}
		if math.Abs(diff) > 360.0/256.0 {
			t.Errorf("Angle(%v) = %d, decodes to %v (diff %v)", deg, angle, back, diff)
		}
	}
}

func TestAngleKnownValues(t *testing.T) {
	tests := []struct {
		deg  float32
		want uint8
	}{
		{0, 0},
		{90, 64},
		{180, 128},
		{270, 192},
		{360, 0},
	}
	for _, tt := range tests {
		if got := Angle(tt.deg); got != tt.want {
			t.Errorf("Angle(%v) = %d, want %d", tt.deg, got, tt.want)
		}
	}
}

func TestVelocityShortClamping(t *testing.T) {
	tests := []struct {
		component float64
		want      int16
	}{
		{0, 0},
		{1.0, 8000},
		{-1.0, -8000},
		{100.0, math.MaxInt16},
		{-100.0, math.MinInt16},
	}
	for _, tt := range tests {
		if got := VelocityShort(tt.component); got != tt.want {
			t.Errorf("VelocityShort(%v) = %d, want %d", tt.component, got, tt.want)
		}
	}
}

func TestPlayerInfoUpdateActionLengths(t *testing.T) {
	player := InfoEntry{
		UUID:     uuid.MustParse("069a79f4-44e9-4726-a5be-fca90e38aaf5"),
		Name:     "Notch",
		GameMode: 1,
		Listed:   true,
		Ping:     42,
	}

	// Per-action sub-lengths for this entry with secure chat off.
	subLen := map[uint8]int{
		packet.InfoActionAddPlayer:   1 + 5 + 1, // name length prefix + bytes + property count
		packet.InfoActionInitChat:    1,         // has-signature false
		packet.InfoActionGameMode:    1,
		packet.InfoActionListed:      1,
		packet.InfoActionLatency:     1,
		packet.InfoActionDisplayName: 1, // has-display-name false
	}

	for actions := uint8(0); actions < 0x40; actions++ {
		f, err := PlayerInfoUpdate(actions, []InfoEntry{player}, false)
		if err != nil {
			t.Fatalf("actions %#02x: %v", actions, err)
		}

		want := 1 + 1 + 16 // actions byte + count VarInt + UUID
		for _, bit := range []uint8{0x01, 0x02, 0x04, 0x08, 0x10, 0x20} {
			if actions&bit != 0 {
				want += subLen[bit]
			}
		}
		if len(f.Payload) != want {
			t.Errorf("actions %#02x: payload length = %d, want %d", actions, len(f.Payload), want)
		}
	}
}

func TestPlayerInfoUpdateSessionBlock(t *testing.T) {
	session := &ChatSession{
		ExpiresAt: 1234,
		PubKey:    bytes.Repeat([]byte{0x01}, 256),
		KeySig:    bytes.Repeat([]byte{0x02}, 512),
	}
	player := InfoEntry{UUID: uuid.New(), Name: "A", Session: session}

	f, err := PlayerInfoUpdate(packet.InfoActionInitChat, []InfoEntry{player}, true)
	if err != nil {
		t.Fatalf("PlayerInfoUpdate: %v", err)
	}
	// actions + count + uuid + hasSig + sessionID + expiry + keyLen(2) + key + sigLen(2) + sig
	want := 1 + 1 + 16 + 1 + 16 + 8 + 2 + 256 + 2 + 512
	if len(f.Payload) != want {
		t.Errorf("payload length = %d, want %d", len(f.Payload), want)
	}

	// With secure chat off the session block collapses to a single false byte.
	f, err = PlayerInfoUpdate(packet.InfoActionInitChat, []InfoEntry{player}, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Payload) != 1+1+16+1 {
		t.Errorf("insecure payload length = %d, want %d", len(f.Payload), 1+1+16+1)
	}
}

func TestPlayerInfoUpdateOversizedKey(t *testing.T) {
	tests := []struct {
		name    string
		session ChatSession
	}{
		{"pubkey_too_big", ChatSession{PubKey: make([]byte, MaxSessionPubKey+1)}},
		{"keysig_too_big", ChatSession{KeySig: make([]byte, MaxSessionKeySig+1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			player := InfoEntry{UUID: uuid.New(), Name: "A", Session: &tt.session}
			if _, err := PlayerInfoUpdate(packet.InfoActionInitChat, []InfoEntry{player}, true); err == nil {
				t.Error("oversized session key accepted")
			}
		})
	}
}

func TestPlayerChatInsecure(t *testing.T) {
	sender := uuid.MustParse("069a79f4-44e9-4726-a5be-fca90e38aaf5")
	f := PlayerChat(PlayerChatData{
		Sender:        sender,
		SenderName:    "A",
		Message:       "hi",
		Timestamp:     1111,
		Salt:          2222,
		ChatTypeIndex: 0,
	})

	if f.ID != packet.PlayerChatMessageID {
		t.Fatalf("ID = 0x%02X", f.ID)
	}

	r := bytes.NewReader(f.Payload)
	gotUUID, err := mcnet.ReadUUID(r)
	if err != nil || gotUUID != sender {
		t.Fatalf("sender UUID = %v, %v", gotUUID, err)
	}
	if idx, _, _ := mcnet.ReadVarInt(r); idx != 0 {
		t.Errorf("message index = %d, want 0", idx)
	}
	if present, _ := mcnet.ReadBool(r); present {
		t.Error("signature present without a signature")
	}
	if body, _ := mcnet.ReadString(r); body != "hi" {
		t.Errorf("body = %q", body)
	}
	if ts, _ := mcnet.ReadI64(r); ts != 1111 {
		t.Errorf("timestamp = %d", ts)
	}
	if salt, _ := mcnet.ReadI64(r); salt != 2222 {
		t.Errorf("salt = %d", salt)
	}
	if prev, _, _ := mcnet.ReadVarInt(r); prev != 0 {
		t.Errorf("previous messages = %d", prev)
	}
	if unsigned, _ := mcnet.ReadBool(r); unsigned {
		t.Error("unsigned content flag set")
	}
	if filter, _, _ := mcnet.ReadVarInt(r); filter != 0 {
		t.Errorf("filter = %d, want pass-through", filter)
	}
	if chatType, _, _ := mcnet.ReadVarInt(r); chatType != 1 {
		t.Errorf("chat type on wire = %d, want registry index 0 + 1", chatType)
	}
}

func TestSynchronizePlayerPositionResetsLook(t *testing.T) {
	f := SynchronizePlayerPosition(1.5, 64, -3.25, 42)

	r := bytes.NewReader(f.Payload)
	x, _ := mcnet.ReadF64(r)
	y, _ := mcnet.ReadF64(r)
	z, _ := mcnet.ReadF64(r)
	yaw, _ := mcnet.ReadF32(r)
	pitch, _ := mcnet.ReadF32(r)
	flags, _ := mcnet.ReadU8(r)
	teleportID, _, _ := mcnet.ReadVarInt(r)

	if x != 1.5 || y != 64 || z != -3.25 {
		t.Errorf("position = (%v, %v, %v)", x, y, z)
	}
	if yaw != 0 || pitch != 0 {
		t.Errorf("look = (%v, %v), want zeros", yaw, pitch)
	}
	if flags != 0 {
		t.Errorf("flags = %d, want absolute", flags)
	}
	if teleportID != 42 {
		t.Errorf("teleport ID = %d, want 42", teleportID)
	}
}

func TestWorldEventRelativeVolumeFlag(t *testing.T) {
	for _, event := range []int32{1023, 1028, 1038} {
		f := WorldEvent(event, 0, 64, 0, 0)
		if f.Payload[len(f.Payload)-1] != 1 {
			t.Errorf("event %d: disable-relative-volume flag not set", event)
		}
	}
	f := WorldEvent(1000, 0, 64, 0, 0)
	if f.Payload[len(f.Payload)-1] != 0 {
		t.Error("event 1000: disable-relative-volume flag set")
	}
}

func TestBossbarActions(t *testing.T) {
	d := BossbarData{
		UUID:     uuid.New(),
		Title:    nbt.TextComponent("Boss", "red"),
		Health:   0.5,
		Color:    4,
		Division: 0,
		Flags:    0x01,
	}

	addFrame, ok := Bossbar(BossbarActionAdd, d)
	if !ok {
		t.Fatal("add action rejected")
	}
	removeFrame, ok := Bossbar(BossbarActionRemove, d)
	if !ok {
		t.Fatal("remove action rejected")
	}
	if len(removeFrame.Payload) != 16+1 {
		t.Errorf("remove payload = %d bytes, want uuid + action only", len(removeFrame.Payload))
	}
	if len(addFrame.Payload) <= len(removeFrame.Payload) {
		t.Error("add payload should carry title/health/style")
	}

	healthFrame, _ := Bossbar(BossbarActionUpdateHealth, d)
	if len(healthFrame.Payload) != 16+1+4 {
		t.Errorf("update-health payload = %d bytes", len(healthFrame.Payload))
	}

	if _, ok := Bossbar(99, d); ok {
		t.Error("unknown action accepted")
	}
}

func TestEntityMetadataTerminator(t *testing.T) {
	f := EntityMetadata(7, []MetadataEntry{{Index: 0, Type: 0, Value: []byte{0x02}}})
	if f.Payload[len(f.Payload)-1] != 0xFF {
		t.Error("metadata not terminated with 0xFF")
	}
}

func TestRemoveEntities(t *testing.T) {
	f := RemoveEntities([]int32{1, 300})
	want := []byte{0x02, 0x01, 0xAC, 0x02}
	if !bytes.Equal(f.Payload, want) {
		t.Errorf("payload = % X, want % X", f.Payload, want)
	}
	if f.ID != packet.RemoveEntitiesID {
		t.Errorf("ID = 0x%02X", f.ID)
	}
}

func TestContainerContentFillsDeclaredSize(t *testing.T) {
	slots := map[int32]mcnet.SlotData{1: {ItemCount: 3, ItemID: 5}}
	f := ContainerContent(1, 7, 3, slots, mcnet.SlotData{})

	r := bytes.NewReader(f.Payload)
	if id, _ := mcnet.ReadU8(r); id != 1 {
		t.Errorf("window ID = %d", id)
	}
	if state, _, _ := mcnet.ReadVarInt(r); state != 7 {
		t.Errorf("state ID = %d", state)
	}
	count, _, _ := mcnet.ReadVarInt(r)
	if count != 3 {
		t.Fatalf("slot count = %d", count)
	}
	for i := int32(0); i < count; i++ {
		s, err := mcnet.ReadSlot(r)
		if err != nil {
			t.Fatalf("slot %d: %v", i, err)
		}
		if i == 1 && s.ItemID != 5 {
			t.Errorf("slot 1 = %+v", s)
		}
		if i != 1 && !s.IsEmpty() {
			t.Errorf("slot %d should be empty", i)
		}
	}
	if _, err := mcnet.ReadSlot(r); err != nil {
		t.Fatalf("carried slot: %v", err)
	}
	if r.Len() != 0 {
		t.Errorf("%d trailing bytes", r.Len())
	}
}

func TestBrandPluginMessage(t *testing.T) {
	f := BrandPluginMessage()
	r := bytes.NewReader(f.Payload)
	channel, _ := mcnet.ReadString(r)
	brand, _ := mcnet.ReadString(r)
	if channel != "minecraft:brand" || brand != "MCpp" {
		t.Errorf("plugin message = %s / %s", channel, brand)
	}
}
