package clientbound

import (
	"github.com/google/uuid"

	"github.com/mcpp/server/internal/server/nbt"
	mcnet "github.com/mcpp/server/internal/server/net"
	"github.com/mcpp/server/internal/server/packet"
)

// SystemChat shows a text component in chat or on the action bar.
func SystemChat(content *nbt.Compound, actionBar bool) mcnet.Frame {
	var w writer
	w.raw(nbt.Marshal(content, true))
	w.boolean(actionBar)
	return w.frame(packet.SystemChatMessageID)
}

// PlayerChatData parameterizes a Player Chat Message.
type PlayerChatData struct {
	Sender        uuid.UUID
	SenderName    string
	Message       string
	Timestamp     int64
	Salt          int64
	Signature     []byte // 256 bytes when signed, nil otherwise
	ChatTypeIndex int32  // registry index; the wire carries index+1
	TargetName    string // empty = absent
}

// PlayerChat encodes a (possibly signed) player chat message. The filter
// type is always pass-through.
func PlayerChat(d PlayerChatData) mcnet.Frame {
	var w writer
	w.raw(d.Sender[:])
	w.varInt(0) // message index
	if len(d.Signature) > 0 {
		w.boolean(true)
		w.raw(d.Signature)
	} else {
		w.boolean(false)
	}
	w.str(d.Message)
	w.i64(d.Timestamp)
	w.i64(d.Salt)
	w.varInt(0)      // previous messages
	w.boolean(false) // unsigned content
	w.varInt(0)      // filter: pass-through
	w.varInt(d.ChatTypeIndex + 1)
	w.raw(nbt.Marshal(nbt.TextComponent(d.SenderName, "white"), true))
	if d.TargetName != "" {
		w.boolean(true)
		w.raw(nbt.Marshal(nbt.TextComponent(d.TargetName, "white"), true))
	} else {
		w.boolean(false)
	}
	return w.frame(packet.PlayerChatMessageID)
}

// Commands sends the pre-serialized command graph.
func Commands(numNodes int32, nodes []byte, rootIndex int32) mcnet.Frame {
	var w writer
	w.varInt(numNodes)
	w.raw(nodes)
	w.varInt(rootIndex)
	return w.frame(packet.CommandsID)
}

// CommandSuggestions answers a tab-completion request.
func CommandSuggestions(transactionID int32, start, length int32, suggestions []string) mcnet.Frame {
	var w writer
	w.varInt(transactionID)
	w.varInt(start)
	w.varInt(length)
	w.varInt(int32(len(suggestions)))
	for _, s := range suggestions {
		w.str(s)
		w.boolean(false) // no tooltip
	}
	return w.frame(packet.CommandSuggestionsResponseID)
}
