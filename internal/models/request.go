package models

import "time"

// ItemRequest is a user's ask for an item nobody has listed yet.
// Items holds the items later created in answer to the request.
type ItemRequest struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	RequesterID int64     `json:"requester_id"`
	CreatedAt   time.Time `json:"created_at"`
	Items       []*Item   `json:"items"`
}
