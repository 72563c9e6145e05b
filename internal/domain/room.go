package domain

// RoomID is an opaque room identifier supplied by already-authenticated clients.
type RoomID string
