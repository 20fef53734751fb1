package models

type InsertResult struct {
	InsertedId interface{} `json:"insertedId"`
}
