package culture

import "time"

// Record is a persisted culture-log entry. Id and CreatedAt are assigned by
// the record store and never change afterwards; OwnerId is set once at
// creation.
type Record struct {
	Id        string    `json:"id"`
	OwnerId   string    `json:"ownerId"`
	Note      string    `json:"note"`
	Image     Image     `json:"image,omitzero"`
	Tags      []string  `json:"tags"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Fields is the mutable portion of a record handed to the store on
// insert/update.
type Fields struct {
	OwnerId  string
	Note     string
	Image    Image
	Tags     []string
	Category string
}

type User struct {
	Id          string `json:"id"`
	DisplayName string `json:"displayName"`
}
