package types

type ChatRole string

const (
	RoleUser  ChatRole = "user"
	RoleModel ChatRole = "model"
)

// ChatMessage is one entry of the append-only assistant transcript.
// Timestamp is unix milliseconds.
type ChatMessage struct {
	ID        string   `json:"id"`
	Role      ChatRole `json:"role"`
	Content   string   `json:"content"`
	Timestamp int64    `json:"timestamp"`
}

// Tab is the active view of the front-end.
type Tab string

const (
	TabDonor     Tab = "donor"
	TabRecipient Tab = "recipient"
	TabBrain     Tab = "brain"
)

func (t Tab) Valid() bool {
	switch t {
	case TabDonor, TabRecipient, TabBrain:
		return true
	}
	return false
}

// Recipient viewer types offered by the feed selector.
const (
	RecipientShelter  = "Shelter"
	RecipientFoodBank = "Food Bank"
	RecipientKitchen  = "Kitchen"
)

func ValidRecipientType(s string) bool {
	switch s {
	case RecipientShelter, RecipientFoodBank, RecipientKitchen:
		return true
	}
	return false
}
