package models

type Location struct {
	ID       int    `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	Building string `json:"building" db:"building"`
	Floor    string `json:"floor" db:"floor"`
}
