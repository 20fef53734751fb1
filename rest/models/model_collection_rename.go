package models

type CollectionRename struct {
	// Name is the target collection name
	Name string `json:"name" validate:"required"`
}
