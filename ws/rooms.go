package ws

import "fmt"

// RoomKind tags the audience a room addresses.
type RoomKind int

const (
	RoomOrder RoomKind = iota
	RoomDriver
	RoomAdmin
)

// Room is a logical broadcast group. The zero-ID admin room is the shared
// dashboard channel every admin connection subscribes to.
type Room struct {
	Kind RoomKind
	ID   uint
}

func OrderRoom(orderID uint) Room { return Room{Kind: RoomOrder, ID: orderID} }
func DriverRoom(userID uint) Room { return Room{Kind: RoomDriver, ID: userID} }
func AdminRoom(userID uint) Room  { return Room{Kind: RoomAdmin, ID: userID} }
func AdminsRoom() Room            { return Room{Kind: RoomAdmin} }

// String is the only place wire-level room names are formed.
func (r Room) String() string {
	switch r.Kind {
	case RoomOrder:
		return fmt.Sprintf("order-%d", r.ID)
	case RoomDriver:
		return fmt.Sprintf("driver-%d", r.ID)
	case RoomAdmin:
		if r.ID == 0 {
			return "admins"
		}
		return fmt.Sprintf("admin-%d", r.ID)
	}
	return fmt.Sprintf("room-%d", r.ID)
}
