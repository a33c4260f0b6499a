package entity

// Controls selects the interactive components a message carries.
// The messaging adapter decides how each set is drawn.
type Controls int

const (
	ControlsNone Controls = iota
	ControlsPoll
	ControlsVote
	ControlsEndVote
)

type Color int

const (
	ColorBlue  Color = 0x3498db
	ColorGreen Color = 0x2ecc71
	ColorGold  Color = 0xf1c40f
	ColorGrey  Color = 0x95a5a6
)

type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

type Embed struct {
	Title       string
	Description string
	Color       Color
	Fields      []EmbedField
	Footer      string
}

type SelectOption struct {
	Label       string
	Value       string
	Description string
}

// Message is a platform-neutral outgoing chat message.
type Message struct {
	Content  string
	Embed    *Embed
	Controls Controls
	Options  []SelectOption
}
