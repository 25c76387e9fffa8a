package model

// Participant is one member of a chat conversation.
type Participant struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

// ChatDetail is the metadata shown in a chat header: display name, picture
// and the participant list. It is fetched lazily per (role, chat) pair and
// never persisted; the cache lives only as long as the current screen.
type ChatDetail struct {
	ChatName       string        `json:"chat_name"`
	ChatPictureURL string        `json:"chat_picture_url"`
	Participants   []Participant `json:"participants"`
}
