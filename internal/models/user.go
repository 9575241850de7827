package models

type User struct {
	ID           int    `bson:"_id" json:"id"`
	Username     string `bson:"username" json:"username"`
	PasswordHash string `bson:"password" json:"-"` // never leaves the server
	IsAdmin      bool   `bson:"isAdmin" json:"isAdmin"`
}
