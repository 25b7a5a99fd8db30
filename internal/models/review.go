package models

import "time"

type Review struct {
	ID       string `json:"id"`
	TitleID  string `json:"-"`
	AuthorID string `json:"-"`
	// Author username, joined in at query time.
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"pub_date"`
}

type Comment struct {
	ID        string    `json:"id"`
	ReviewID  string    `json:"-"`
	AuthorID  string    `json:"-"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"pub_date"`
}
