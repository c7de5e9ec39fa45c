// Package packet defines the phase-scoped packet IDs and serverbound packet
// layouts for Minecraft Java Edition protocol 767 (1.21).
package packet

// ProtocolVersion is the protocol number for 1.21.
const ProtocolVersion = 767

// VersionName is the display name reported in status responses.
const VersionName = "1.21"

// Clientbound login IDs.
const (
	LoginDisconnectID   int32 = 0x00
	EncryptionRequestID int32 = 0x01
	LoginSuccessID      int32 = 0x02
	SetCompressionID    int32 = 0x03
)

// Clientbound configuration IDs.
const (
	PluginMessageConfigID      int32 = 0x01
	DisconnectConfigID         int32 = 0x02
	FinishConfigurationID      int32 = 0x03
	KeepAliveConfigID          int32 = 0x04
	RegistryDataID             int32 = 0x07
	RemoveResourcePackConfigID int32 = 0x08
	AddResourcePackConfigID    int32 = 0x09
	FeatureFlagsID             int32 = 0x0C
	UpdateTagsID               int32 = 0x0D
	KnownPacksID               int32 = 0x0E
)

// Clientbound play IDs.
const (
	BundleDelimiterID                 int32 = 0x00
	SpawnEntityID                     int32 = 0x01
	EntityAnimationID                 int32 = 0x03
	AcknowledgeBlockChangeID          int32 = 0x05
	BlockDestroyStageID               int32 = 0x06
	BossBarID                         int32 = 0x0A
	CommandSuggestionsResponseID      int32 = 0x10
	CommandsID                        int32 = 0x11
	SetContainerContentID             int32 = 0x13
	SetContainerSlotID                int32 = 0x15
	PluginMessagePlayID               int32 = 0x19
	DisconnectPlayID                  int32 = 0x1D
	EntityEventID                     int32 = 0x1F
	GameEventID                       int32 = 0x22
	InitializeWorldBorderID           int32 = 0x25
	KeepAlivePlayID                   int32 = 0x26
	WorldEventID                      int32 = 0x28
	LoginPlayID                       int32 = 0x2B
	UpdateEntityPositionID            int32 = 0x2E
	UpdateEntityPositionAndRotationID int32 = 0x2F
	UpdateEntityRotationID            int32 = 0x30
	OpenScreenID                      int32 = 0x33
	PlayerAbilitiesID                 int32 = 0x38
	PlayerChatMessageID               int32 = 0x39
	PlayerInfoRemoveID                int32 = 0x3D
	PlayerInfoUpdateID                int32 = 0x3E
	SynchronizePlayerPositionID       int32 = 0x40
	RemoveEntitiesID                  int32 = 0x42
	RemoveResourcePackPlayID          int32 = 0x45
	AddResourcePackPlayID             int32 = 0x46
	SetHeadRotationID                 int32 = 0x48
	SetBorderCenterID                 int32 = 0x4D
	SetBorderLerpSizeID               int32 = 0x4E
	SetBorderSizeID                   int32 = 0x4F
	SetBorderWarningDelayID           int32 = 0x50
	SetBorderWarningDistanceID        int32 = 0x51
	SetCenterChunkID                  int32 = 0x53
	SetEntityMetadataID               int32 = 0x57
	SetEntityVelocityID               int32 = 0x59
	SetEquipmentID                    int32 = 0x5A
	SetHeldItemID                     int32 = 0x5D
	UpdateTimeID                      int32 = 0x64
	SystemChatMessageID               int32 = 0x6C
	PickUpItemID                      int32 = 0x6F
	TeleportEntityID                  int32 = 0x70
	UpdateAttributesID                int32 = 0x75
	UpdateRecipesID                   int32 = 0x77
	ServerLinksID                     int32 = 0x7B
)

// Serverbound configuration IDs.
const (
	ClientInfoConfigID       int32 = 0x00
	PluginMessageConfigSBID  int32 = 0x02
	FinishConfigurationAckID int32 = 0x03
	KeepAliveConfigSBID      int32 = 0x04
	KnownPacksSBID           int32 = 0x07
)

// Serverbound play IDs.
const (
	ConfirmTeleportationID         int32 = 0x00
	ChatCommandID                  int32 = 0x04
	ChatMessageSBID                int32 = 0x06
	PlayerSessionID                int32 = 0x07
	ClientInfoPlayID               int32 = 0x0A
	CommandSuggestionsRequestID    int32 = 0x0B
	KeepAlivePlaySBID              int32 = 0x18
	SetPlayerPositionID            int32 = 0x1A
	SetPlayerPositionAndRotationID int32 = 0x1B
	SetPlayerRotationID            int32 = 0x1C
	SetPlayerOnGroundID            int32 = 0x1D
	PlayerAbilitiesSBID            int32 = 0x23
	PlayerActionID                 int32 = 0x24
	PlayerCommandID                int32 = 0x25
	SetHeldItemSBID                int32 = 0x2F
	SwingArmID                     int32 = 0x36
)

// Game modes.
const (
	GameModeSurvival  uint8 = 0
	GameModeCreative  uint8 = 1
	GameModeAdventure uint8 = 2
	GameModeSpectator uint8 = 3
)

// GameEvent IDs for the Game Event packet.
const (
	GameEventChangeGameMode     uint8 = 3
	GameEventStartWaitingChunks uint8 = 13
)

// Player Info Update action bits, encoded in bit order.
const (
	InfoActionAddPlayer   uint8 = 0x01
	InfoActionInitChat    uint8 = 0x02
	InfoActionGameMode    uint8 = 0x04
	InfoActionListed      uint8 = 0x08
	InfoActionLatency     uint8 = 0x10
	InfoActionDisplayName uint8 = 0x20
)
