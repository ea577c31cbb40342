package domain

// Item is an inventory entry as seen by the engine.
type Item struct {
	ID       string `json:"id" yaml:"id" mapstructure:"id"`
	Name     string `json:"name" yaml:"name" mapstructure:"name"`
	Giftable bool   `json:"giftable,omitempty" yaml:"giftable,omitempty" mapstructure:"giftable"`
}

// ErrandDefinition describes an errand handed to the player.
type ErrandDefinition struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Giver       string `json:"giver,omitempty" yaml:"giver,omitempty"`
	// Deadline is expressed in total elapsed minutes; zero means none.
	Deadline int `json:"deadline,omitempty" yaml:"deadline,omitempty"`
}

// ErrandStatus is the discrete classification of an errand.
type ErrandStatus string

const (
	ErrandNotStarted ErrandStatus = "not_started"
	ErrandActive     ErrandStatus = "active"
	ErrandCompleted  ErrandStatus = "completed"
)

// Delivery is the result of turning in an errand.
type Delivery struct {
	Late      bool `json:"late"`
	Money     int  `json:"money"`
	Blessings int  `json:"blessings"`
}
