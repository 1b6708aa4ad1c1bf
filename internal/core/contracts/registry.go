package contracts

// PresenceRegistry maps a user identity to its currently connected client.
// At most one live entry per user: a later register displaces the earlier one.
type PresenceRegistry interface {
	// Register upserts the user's connection and returns the displaced client,
	// if any. The displaced socket is not closed; delivery to it simply stops.
	Register(userID string, c Client) (displaced Client)
	Lookup(userID string) (Client, bool)
	// Remove deletes the entry only if connID matches the handle on file.
	// A stale disconnect racing a newer register must not evict the newer
	// connection. Reports whether an entry was removed.
	Remove(userID, connID string) bool
	Online() []string
}

// RoomIndex maps a room to the set of connections subscribed for live
// delivery. Joining is a transport-level subscribe; durable membership is
// checked by the router at send time, not here.
type RoomIndex interface {
	Join(roomID string, c Client)
	// BroadcastTargets returns every subscribed client except excludeConnID,
	// so senders never receive an echo of their own group message.
	BroadcastTargets(roomID, excludeConnID string) []Client
	// Leave removes the connection from each of the given rooms. The caller
	// supplies the rooms it tracked for the connection, keeping cleanup
	// proportional to rooms joined rather than rooms existing.
	Leave(connID string, roomIDs []string)
}
