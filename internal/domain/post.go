package domain

import "time"

type PostCreationData struct {
	GroupId  GroupId
	AuthorId UserId
	Caption  string
	ImageUrl string
	ImageKey string
	Date     time.Time // calendar-day granularity
}

type Post struct {
	Id         PostId
	GroupId    GroupId
	AuthorId   UserId
	AuthorName string
	Caption    string
	ImageUrl   string
	ImageKey   string
	Date       time.Time
	CreatedAt  time.Time
}

type PostUpdateData struct {
	Caption *string
}

// PostExport is one row of a user's posting history as exported to CSV.
type PostExport struct {
	GroupName string
	Caption   string
	Date      time.Time
}
