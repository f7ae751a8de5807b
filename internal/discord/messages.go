package discord

// Friendly message constants for Discord responses
const (
	// Turn order
	MsgNotYourTurn = "⏳ **Not your turn!**\nWait for the current fighter, or for their turn to time out."
	MsgKnockedOut  = "💫 **Knocked Out**\nYour character needs to recover before fighting again."

	// Membership
	MsgRaidFull       = "🚪 **Raid Full**\nThis raid has no room for another fighter."
	MsgAlreadyJoined  = "✅ **Already In**\nYou're already fighting in this raid."
	MsgNotInRaid      = "❓ **Not In This Raid**\nJoin first with `/raid join`."
	MsgWrongVillage   = "🗺️ **Wrong Village**\nTravel to the raid's village to join."
	MsgNotInParty     = "🧭 **Not In The Party**\nOnly expedition members can fight this raid."
	MsgExpeditionLeft = "🛡️ **Stick Together**\nExpedition raids end only when the whole party retreats."

	// State
	MsgRaidOver     = "🏁 **Raid Over**\nThis raid has already ended."
	MsgRaidNotFound = "❓ **Raid Not Found**\nCheck the raid ID."
	MsgCharNotFound = "👤 **Character Not Found**\nHas it been synced yet?"
	MsgBusy         = "🔁 **Busy Raid**\nToo many fighters at once. Try again."

	// Cooldowns
	MsgCooldownActive = "⏳ **Whoa there!**\nThe monsters need time to regroup."

	MsgInvalidID      = "❌ That doesn't look like a valid ID."
	MsgAPIUnreachable = "Error connecting to game server."
	MsgGenericError   = "❌ Something went wrong."
)
